package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type timelineRepository struct {
	db *sql.DB
}

func NewTimelineRepository(db *sql.DB) repository.TimelineRepository {
	return &timelineRepository{db: db}
}

// Append assigns the next per-rental sequence number inside the insert
// itself, so the log stays gapless under the per-rental serialization the
// callers' transactions provide.
func (r *timelineRepository) Append(ctx context.Context, rentalID int32, event string, actorID int32, details map[string]string) error {
	var detailsJSON []byte
	if len(details) > 0 {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			return err
		}
	}

	query := `INSERT INTO rental_timeline (rental_id, seq, event, actor_id, details, created_on)
	          SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5
	          FROM rental_timeline WHERE rental_id = $1`
	_, err := run(ctx, r.db).ExecContext(ctx, query, rentalID, event, actorID, detailsJSON, time.Now())
	return err
}

func (r *timelineRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.TimelineEvent, error) {
	query := `SELECT id, rental_id, seq, event, actor_id, details, created_on
	          FROM rental_timeline WHERE rental_id = $1 ORDER BY seq ASC`
	rows, err := run(ctx, r.db).QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.TimelineEvent
	for rows.Next() {
		var ev domain.TimelineEvent
		var details []byte
		if err := rows.Scan(&ev.ID, &ev.RentalID, &ev.Seq, &ev.Event, &ev.ActorID, &details, &ev.CreatedOn); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &ev.Details); err != nil {
				return nil, err
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
