package repositories

import (
	"context"

	"github.com/google/uuid"
)

// UserEventRepository manages the user/event association set. Single
// statements only; nothing here needs a transaction.
type UserEventRepository interface {
	// Add links the user to the event. Returns false when the pair already
	// existed; a repeated add never creates a duplicate row.
	Add(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	// Remove deletes the exact pair. Returns false when no row matched,
	// which is not an error.
	Remove(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ListEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userEventRepo struct {
	db Database
}

func NewUserEventRepo(db Database) UserEventRepository {
	return &userEventRepo{db: db}
}

func (r *userEventRepo) Add(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO user_events (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userEventRepo) Remove(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	query := `DELETE FROM user_events WHERE user_id = $1 AND event_id = $2`
	tag, err := r.db.Exec(ctx, query, userID, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userEventRepo) ListEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT event_id FROM user_events WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []uuid.UUID
	for rows.Next() {
		var eventID uuid.UUID
		if err := rows.Scan(&eventID); err != nil {
			return nil, err
		}
		events = append(events, eventID)
	}
	return events, rows.Err()
}
