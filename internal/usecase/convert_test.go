//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"vialmedia/internal/domain/pricing"
	"vialmedia/internal/domain/quotation"
	"vialmedia/internal/domain/rental"
	"vialmedia/internal/domain/support"
	"vialmedia/internal/infra"
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ConvertUseCaseTestSuite struct {
	suite.Suite
	quotationRepo *mockQuotationRepo
	supportRepo   *mockSupportRepo
	rentalRepo    *mockRentalRepo
	productRepo   *mockProductRepo
	clock         *clock.MockClock
	uc            usecase.ConvertCommands

	quotationID uuid.UUID
	supportID   uuid.UUID
}

func (s *ConvertUseCaseTestSuite) SetupTest() {
	s.quotationRepo = new(mockQuotationRepo)
	s.supportRepo = new(mockSupportRepo)
	s.rentalRepo = new(mockRentalRepo)
	s.productRepo = new(mockProductRepo)
	s.clock = clock.NewMockClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	s.uc = usecase.NewConvertUseCase(s.quotationRepo, s.supportRepo, s.rentalRepo, s.productRepo, stubTxRunner{}, s.clock)

	s.quotationID = uuid.New()
	s.supportID = uuid.New()
}

func TestConvertUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ConvertUseCaseTestSuite))
}

func (s *ConvertUseCaseTestSuite) quotationFound() {
	s.quotationRepo.On("FindByID", mock.Anything, s.quotationID).
		Return(&quotation.Quotation{
			ID:     s.quotationID,
			Code:   "COT-0042",
			Client: "ACME",
			Vendor: "María",
		}, nil)
}

func (s *ConvertUseCaseTestSuite) supportLine(code string) quotation.Line {
	return quotation.Line{
		Kind:            quotation.KindProduct,
		ProductCode:     code,
		Description:     "Del 2025-07-01 al 2025-12-31",
		Quantity:        6,
		IsSupportRental: true,
		LineTotal:       7200,
	}
}

func (s *ConvertUseCaseTestSuite) TestDryRunHappyPath() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001", Status: support.StatusAvailable}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{}, nil)

	result, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.Require().NoError(err)
	s.True(result.DryRun)
	s.Require().Len(result.Rentals, 1)
	s.Equal("VAL-001", result.Rentals[0].SupportCode)
	s.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), result.Rentals[0].StartDate)
	s.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), result.Rentals[0].EndDate)
	s.InDelta(6.0, result.Rentals[0].Months, 1e-9)
	s.InDelta(7200.0, result.Rentals[0].Total, 1e-9)
}

func (s *ConvertUseCaseTestSuite) TestQuotationNotFound() {
	s.quotationRepo.On("FindByID", mock.Anything, s.quotationID).
		Return(nil, infra.WrapRepoErr(infra.KindNotFound, "quotation not found", pgx.ErrNoRows))

	_, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.ErrorIs(err, usecase.ErrQuotationNotFound)
}

func (s *ConvertUseCaseTestSuite) TestNoRentalLines() {
	s.quotationFound()
	serviceLine := quotation.Line{Kind: quotation.KindService, Quantity: 1}
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{serviceLine}, nil)

	_, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.ErrorIs(err, usecase.ErrNoRentalLines)
}

func (s *ConvertUseCaseTestSuite) TestUnknownSupportFailsWholeBatch() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001"), s.supportLine("VAL-404")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001"}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-404").
		Return(nil, infra.WrapRepoErr(infra.KindNotFound, "support not found", pgx.ErrNoRows))

	_, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.Require().ErrorIs(err, usecase.ErrSupportNotFound)
	var notFound *usecase.SupportNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Equal("VAL-404", notFound.SupportCode)
	s.rentalRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ConvertUseCaseTestSuite) TestDryRunDetectsOverlap() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001"}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{{
			QuotationID: uuid.New(),
			SupportCode: "VAL-001",
			StartDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			Status:      rental.StatusActive,
		}}, nil)

	_, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.Require().ErrorIs(err, usecase.ErrOverlapConflict)
	var conflict *usecase.OverlapConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal("VAL-001", conflict.SupportCode)
}

func (s *ConvertUseCaseTestSuite) TestDryRunIgnoresOwnQuotationRentals() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001"}, nil)
	// A previous generation of the same quotation occupies the window; it
	// would be cancelled on regeneration, so it must not count as a conflict.
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{{
			QuotationID: s.quotationID,
			SupportCode: "VAL-001",
			StartDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			Status:      rental.StatusActive,
		}}, nil)

	result, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", true)

	s.Require().NoError(err)
	s.Len(result.Rentals, 1)
}

func (s *ConvertUseCaseTestSuite) TestConvertRegenerationCancelsPreviousRentals() {
	oldID := uuid.New()
	previous := rental.Rental{
		ID:          oldID,
		QuotationID: s.quotationID,
		SupportID:   s.supportID,
		SupportCode: "VAL-001",
		StartDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:      rental.StatusActive,
	}
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001", Status: support.StatusAvailable}, nil)
	s.rentalRepo.On("ListByQuotation", mock.Anything, s.quotationID).
		Return([]rental.Rental{previous}, nil)
	s.rentalRepo.On("Cancel", mock.Anything, mock.Anything, oldID, mock.Anything).Return(nil).Once()
	// The superseded rental is still visible under the lock; it belongs to
	// the quotation being regenerated, so it is not a conflict.
	s.rentalRepo.On("ListActiveBySupportForUpdate", mock.Anything, mock.Anything, s.supportID).
		Return([]rental.Rental{previous}, nil)
	s.rentalRepo.On("NextCode", mock.Anything, mock.Anything).Return("ALQ-0002", nil)
	s.rentalRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r *rental.Rental) bool {
		return r.Code == "ALQ-0002" && r.SupportCode == "VAL-001" && r.QuotationID == s.quotationID
	})).Return(nil).Once()
	s.rentalRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", false)

	s.Require().NoError(err)
	s.Equal(1, result.Cancelled)
	s.Require().Len(result.Rentals, 1)
	s.Equal("ALQ-0002", result.Rentals[0].Code)
	// one history event for the cancellation, one for the creation
	s.rentalRepo.AssertNumberOfCalls(s.T(), "AppendHistory", 2)
	s.rentalRepo.AssertExpectations(s.T())
}

func (s *ConvertUseCaseTestSuite) TestConvertAbortsOnOverlapWithoutWriting() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001", Status: support.StatusAvailable}, nil)
	s.rentalRepo.On("ListByQuotation", mock.Anything, s.quotationID).
		Return([]rental.Rental{}, nil)
	s.rentalRepo.On("ListActiveBySupportForUpdate", mock.Anything, mock.Anything, s.supportID).
		Return([]rental.Rental{{
			ID:          uuid.New(),
			QuotationID: uuid.New(),
			SupportCode: "VAL-001",
			StartDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			Status:      rental.StatusActive,
		}}, nil)

	_, err := s.uc.ConvertQuotation(context.Background(), s.quotationID, "user-1", false)

	s.Require().ErrorIs(err, usecase.ErrOverlapConflict)
	var conflict *usecase.OverlapConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal("VAL-001", conflict.SupportCode)
	s.rentalRepo.AssertNotCalled(s.T(), "NextCode", mock.Anything, mock.Anything)
	s.rentalRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
	s.supportRepo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ConvertUseCaseTestSuite) TestCancelRentalFreesSupport() {
	rentalID := uuid.New()
	r := rental.Rental{
		ID:        rentalID,
		SupportID: s.supportID,
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:    rental.StatusActive,
	}
	s.rentalRepo.On("FindByID", mock.Anything, rentalID).Return(&r, nil)
	s.rentalRepo.On("Cancel", mock.Anything, mock.Anything, rentalID, mock.Anything).Return(nil).Once()
	s.rentalRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e rental.HistoryEvent) bool {
		return e.RentalID == rentalID && e.Action == rental.HistoryCancelled && e.Detail == "cliente desistió"
	})).Return(nil).Once()
	s.supportRepo.On("FindByID", mock.Anything, s.supportID).
		Return(&support.Support{ID: s.supportID, Code: "VAL-001", Status: support.StatusOccupied}, nil)
	s.rentalRepo.On("ListActiveBySupportForUpdate", mock.Anything, mock.Anything, s.supportID).
		Return([]rental.Rental{r}, nil)
	s.supportRepo.On("UpdateStatus", mock.Anything, mock.Anything, s.supportID, support.StatusAvailable).
		Return(nil).Once()

	err := s.uc.CancelRental(context.Background(), rentalID, "user-1", "cliente desistió")

	s.Require().NoError(err)
	s.rentalRepo.AssertExpectations(s.T())
	s.supportRepo.AssertExpectations(s.T())
}

func (s *ConvertUseCaseTestSuite) TestDryRunWithLinesAllInvalid() {
	s.quotationFound()

	raw := []quotation.RawLine{
		{Kind: "bundle", Quantity: 1.0},
		{Kind: "product", Quantity: 0.0},
	}
	_, err := s.uc.DryRunWithLines(context.Background(), s.quotationID, raw)

	s.ErrorIs(err, usecase.ErrAllLinesInvalid)
}

func (s *ConvertUseCaseTestSuite) TestDryRunWithLinesUsesSubmittedLines() {
	s.quotationFound()
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-002").
		Return(&support.Support{ID: s.supportID, Code: "VAL-002"}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{}, nil)

	raw := []quotation.RawLine{{
		Kind:            "product",
		ProductCode:     "VAL-002",
		Quantity:        3.0,
		UnitPrice:       1000.0,
		IsSupportRental: true,
		LineTotal:       3000.0,
	}}
	result, err := s.uc.DryRunWithLines(context.Background(), s.quotationID, raw)

	s.Require().NoError(err)
	s.Require().Len(result.Rentals, 1)
	s.Equal("VAL-002", result.Rentals[0].SupportCode)
	// No description: the window starts today and runs whole months
	s.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), result.Rentals[0].StartDate)
	s.Equal(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), result.Rentals[0].EndDate)
	s.quotationRepo.AssertNotCalled(s.T(), "ListLines", mock.Anything, mock.Anything)
}

func (s *ConvertUseCaseTestSuite) TestDryRunWithLinesRecomputesTotals() {
	s.quotationFound()
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-002").
		Return(&support.Support{ID: s.supportID, Code: "VAL-002"}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{}, nil)

	raw := []quotation.RawLine{{
		Kind:            "product",
		ProductCode:     "VAL-002",
		Quantity:        3.0,
		UnitPrice:       1000.0,
		CommissionPct:   10.0,
		IsSupportRental: true,
		LineTotal:       999.0,
	}}
	result, err := s.uc.DryRunWithLines(context.Background(), s.quotationID, raw)

	s.Require().NoError(err)
	s.Require().Len(result.Rentals, 1)
	// 3 × 1000 plus 10% commission; the submitted 999 is discarded
	s.InDelta(3300.0, result.Rentals[0].Total, 1e-9)
	s.productRepo.AssertNotCalled(s.T(), "ListRecipe", mock.Anything, mock.Anything)
}

func (s *ConvertUseCaseTestSuite) TestDryRunWithLinesSubtractsDeclinedLabor() {
	s.quotationFound()
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-002").
		Return(&support.Support{ID: s.supportID, Code: "VAL-002"}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{}, nil)
	s.productRepo.On("ListRecipe", mock.Anything, "VAL-002").
		Return([]pricing.RecipeItem{{
			ResourceName: "instalación",
			Category:     "mano de obra",
			Quantity:     2,
			UnitCost:     50,
		}}, nil)

	raw := []quotation.RawLine{{
		Kind:            "product",
		ProductCode:     "VAL-002",
		Quantity:        2.0,
		UnitPrice:       1000.0,
		IsSupportRental: true,
		Variants:        map[string]string{"instalación": "no"},
	}}
	result, err := s.uc.DryRunWithLines(context.Background(), s.quotationID, raw)

	s.Require().NoError(err)
	s.Require().Len(result.Rentals, 1)
	// base 1000 minus the declined 2×50 labor, times quantity 2
	s.InDelta(1800.0, result.Rentals[0].Total, 1e-9)
	s.productRepo.AssertExpectations(s.T())
}

func (s *ConvertUseCaseTestSuite) TestPreviewReportsConflictWithoutFailing() {
	s.quotationFound()
	s.quotationRepo.On("ListLines", mock.Anything, s.quotationID).
		Return([]quotation.Line{s.supportLine("VAL-001")}, nil)
	s.supportRepo.On("FindByCode", mock.Anything, "VAL-001").
		Return(&support.Support{ID: s.supportID, Code: "VAL-001"}, nil)
	s.rentalRepo.On("ListByQuotation", mock.Anything, s.quotationID).
		Return([]rental.Rental{{Status: rental.StatusActive}, {Status: rental.StatusCancelled}}, nil)
	s.rentalRepo.On("ListActiveBySupport", mock.Anything, s.supportID).
		Return([]rental.Rental{{
			QuotationID: uuid.New(),
			StartDate:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
			Status:      rental.StatusActive,
		}}, nil)

	preview, err := s.uc.PreviewConversion(context.Background(), s.quotationID)

	s.Require().NoError(err)
	s.Equal(1, preview.Existing)
	s.Require().Len(preview.Planned, 1)
	s.NotEmpty(preview.Planned[0].Conflict)
}

func (s *ConvertUseCaseTestSuite) TestCancelAlreadyCancelled() {
	rentalID := uuid.New()
	s.rentalRepo.On("FindByID", mock.Anything, rentalID).
		Return(&rental.Rental{ID: rentalID, Status: rental.StatusCancelled}, nil)

	err := s.uc.CancelRental(context.Background(), rentalID, "user-1", "cliente desistió")

	s.ErrorIs(err, usecase.ErrRentalAlreadyCancelled)
}

func (s *ConvertUseCaseTestSuite) TestCancelNotFound() {
	rentalID := uuid.New()
	s.rentalRepo.On("FindByID", mock.Anything, rentalID).
		Return(nil, infra.WrapRepoErr(infra.KindNotFound, "rental not found", pgx.ErrNoRows))

	err := s.uc.CancelRental(context.Background(), rentalID, "user-1", "cliente desistió")

	s.ErrorIs(err, usecase.ErrRentalNotFound)
}
