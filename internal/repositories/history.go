// package repositories provides the persistence layer for session history.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// HistoryRepository persists [models.HistoryEvent] rows in SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history event with a generated ID and timestamp.
func (r *HistoryRepository) Create(event *models.HistoryEvent) error {
	event.ID = shared.GenerateSessionID()
	event.CreatedAt = time.Now().UTC()

	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO history (id, session_key, track_id, track_name, playlist_id, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, event.ID, event.SessionKey, event.TrackID,
		event.TrackName, event.PlaylistID, event.Action, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history event: %w", err)
	}

	return nil
}

// ListBySession retrieves the most recent events for one session, newest first.
func (r *HistoryRepository) ListBySession(sessionKey string, limit int) ([]*models.HistoryEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, session_key, track_id, track_name, playlist_id, action, created_at
		FROM history
		WHERE session_key = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, sessionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var events []*models.HistoryEvent
	for rows.Next() {
		var event models.HistoryEvent
		err := rows.Scan(&event.ID, &event.SessionKey, &event.TrackID,
			&event.TrackName, &event.PlaylistID, &event.Action, &event.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}
