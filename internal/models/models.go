// package models defines the data model for the track sorting service
package models

import (
	"fmt"
	"time"
)

// History actions recorded when a saved track is filed.
const (
	ActionSorted  = "sorted"  // track added to a playlist and removed from saved
	ActionSkipped = "skipped" // track left in the saved set
)

// HistoryEvent records one sorting decision made during a session: which saved
// track was filed into which playlist, or skipped.
type HistoryEvent struct {
	ID         string    `json:"id"`
	SessionKey string    `json:"-"`
	TrackID    string    `json:"track_id"`
	TrackName  string    `json:"track_name"`
	PlaylistID string    `json:"playlist_id"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks that the event carries the fields persistence requires.
func (e *HistoryEvent) Validate() error {
	if e.SessionKey == "" {
		return fmt.Errorf("history event missing session key")
	}
	if e.TrackID == "" {
		return fmt.Errorf("history event missing track id")
	}
	switch e.Action {
	case ActionSorted:
		if e.PlaylistID == "" {
			return fmt.Errorf("sorted event missing playlist id")
		}
	case ActionSkipped:
	default:
		return fmt.Errorf("unknown history action: %q", e.Action)
	}
	return nil
}
