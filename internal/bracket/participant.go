package bracket

import "github.com/google/uuid"

// Participant is a weak reference into the external user registry. The engine
// never owns participant records, it only places their ids into match slots.
type Participant struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	Seed         int       `db:"seed" json:"seed"`
}
