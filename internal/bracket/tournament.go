package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentArchived  TournamentStatus = "archived"
)

type Format string

const (
	SingleElimination Format = "single_elimination"
)

// Tournament is the persisted header row for one bracket instance.
type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Format    Format           `db:"format" json:"format"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
