//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"vialmedia/internal/domain/notification"
	"vialmedia/internal/domain/rental"
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/pkg/errs"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpiryUseCaseTestSuite struct {
	suite.Suite
	rentalRepo       *mockRentalRepo
	notificationRepo *mockNotificationRepo
	clock            *clock.MockClock
	uc               usecase.ExpiryCommands

	today time.Time
}

func (s *ExpiryUseCaseTestSuite) SetupTest() {
	s.rentalRepo = new(mockRentalRepo)
	s.notificationRepo = new(mockNotificationRepo)
	s.today = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	s.clock = clock.NewMockClock(s.today.Add(9 * time.Hour))
	s.uc = usecase.NewExpiryUseCase(s.rentalRepo, s.notificationRepo, s.clock)
}

func TestExpiryUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ExpiryUseCaseTestSuite))
}

func (s *ExpiryUseCaseTestSuite) endingSoonType(roles ...string) notification.Type {
	return notification.Type{
		ID:      uuid.New(),
		Code:    notification.TypeCodeRentalEndingSoon,
		Origin:  "cron",
		Enabled: true,
		Roles:   roles,
	}
}

func (s *ExpiryUseCaseTestSuite) TestScanWindowIsTomorrowThroughNextWeek() {
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType("admin")}, nil)
	s.rentalRepo.On("ListEndingBetween", mock.Anything,
		s.today.AddDate(0, 0, 1), s.today.AddDate(0, 0, 7)).
		Return([]rental.Rental{}, nil)

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(0, result.Processed)
	s.rentalRepo.AssertExpectations(s.T())
}

func (s *ExpiryUseCaseTestSuite) TestTypeWithoutRolesIsSkipped() {
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType()}, nil)

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(0, result.Processed)
	s.rentalRepo.AssertNotCalled(s.T(), "ListEndingBetween", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExpiryUseCaseTestSuite) TestCreatesOneNotificationCarryingAllRoles() {
	r := rental.Rental{
		ID:          uuid.New(),
		Code:        "ALQ-0001",
		SupportCode: "VAL-001",
		Client:      "ACME",
		EndDate:     s.today.AddDate(0, 0, 6),
	}
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType("admin", "comercial")}, nil)
	s.rentalRepo.On("ListEndingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]rental.Rental{r}, nil)
	s.notificationRepo.On("Exists", mock.Anything, notification.EntityTypeRental, r.ID, notification.TypeCodeRentalEndingSoon).
		Return(false, nil)
	s.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.EntityID == r.ID &&
			n.Priority == notification.PriorityMedium &&
			len(n.Roles) == 2
	})).Return(nil).Once()

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(1, result.Processed)
	s.Equal(1, result.Created)
	s.Equal(0, result.Duplicates)
	s.notificationRepo.AssertExpectations(s.T())
	s.notificationRepo.AssertNumberOfCalls(s.T(), "Create", 1)
}

func (s *ExpiryUseCaseTestSuite) TestImminentRentalGetsHighPriority() {
	r := rental.Rental{ID: uuid.New(), Code: "ALQ-0002", EndDate: s.today.AddDate(0, 0, 3)}
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType("admin")}, nil)
	s.rentalRepo.On("ListEndingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]rental.Rental{r}, nil)
	s.notificationRepo.On("Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil)
	s.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Priority == notification.PriorityHigh
	})).Return(nil)

	_, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.notificationRepo.AssertExpectations(s.T())
}

func (s *ExpiryUseCaseTestSuite) TestExistingNotificationCountsAsDuplicate() {
	r := rental.Rental{ID: uuid.New(), EndDate: s.today.AddDate(0, 0, 5)}
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType("admin")}, nil)
	s.rentalRepo.On("ListEndingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]rental.Rental{r}, nil)
	s.notificationRepo.On("Exists", mock.Anything, mock.Anything, r.ID, mock.Anything).
		Return(true, nil)

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(1, result.Processed)
	s.Equal(0, result.Created)
	s.Equal(1, result.Duplicates)
	s.notificationRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *ExpiryUseCaseTestSuite) TestPerRentalErrorsAreNotFatal() {
	bad := rental.Rental{ID: uuid.New(), EndDate: s.today.AddDate(0, 0, 4)}
	good := rental.Rental{ID: uuid.New(), EndDate: s.today.AddDate(0, 0, 5)}
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{s.endingSoonType("admin")}, nil)
	s.rentalRepo.On("ListEndingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]rental.Rental{bad, good}, nil)
	s.notificationRepo.On("Exists", mock.Anything, mock.Anything, bad.ID, mock.Anything).
		Return(false, errs.New("connection reset"))
	s.notificationRepo.On("Exists", mock.Anything, mock.Anything, good.ID, mock.Anything).
		Return(false, nil)
	s.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(2, result.Processed)
	s.Equal(1, result.Created)
	s.Equal(1, result.Errors)
}

func (s *ExpiryUseCaseTestSuite) TestUnknownCronTypeIgnored() {
	other := notification.Type{Code: "factura_vencida", Origin: "cron", Enabled: true, Roles: []string{"admin"}}
	s.notificationRepo.On("ListEnabledCronTypes", mock.Anything).
		Return([]notification.Type{other}, nil)

	result, err := s.uc.Scan(context.Background())

	s.Require().NoError(err)
	s.Equal(0, result.Processed)
}
