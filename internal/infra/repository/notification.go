package repository

import (
	"context"

	"vialmedia/internal/domain/notification"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ usecase.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) ListEnabledCronTypes(ctx context.Context) ([]notification.Type, error) {
	const query = `
		SELECT id, code, origin, enabled, roles
		FROM notification_types
		WHERE origin = 'cron' AND enabled
		ORDER BY code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list cron notification types")
	}
	defer rows.Close()

	var types []notification.Type
	for rows.Next() {
		var t notification.Type
		if err := rows.Scan(&t.ID, &t.Code, &t.Origin, &t.Enabled, &t.Roles); err != nil {
			return nil, wrapPgErr(err, "failed to scan notification type")
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read notification types")
	}
	return types, nil
}

func (r *NotificationRepository) Exists(ctx context.Context, entityType string, entityID uuid.UUID, typeCode string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE entity_type = $1 AND entity_id = $2 AND type_code = $3
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, entityType, entityID, typeCode).Scan(&exists); err != nil {
		return false, wrapPgErr(err, "failed to check notification existence")
	}
	return exists, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	const query = `
		INSERT INTO notifications (id, type_code, title, body, priority, roles,
			entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`

	_, err := r.db.Exec(ctx, query,
		n.ID, n.TypeCode, n.Title, n.Body, n.Priority, n.Roles,
		n.EntityType, n.EntityID,
	)
	if err != nil {
		return wrapPgErr(err, "failed to create notification")
	}
	return nil
}
