package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event published for collaborators.
type EventType string

const (
	EventMatchResultRecorded EventType = "match_result_recorded"
	EventMatchCompleted      EventType = "match_completed"
	EventMatchDispute        EventType = "match_dispute"
	EventBracketCompleted    EventType = "bracket_completed"
)

// MatchResultRecorded is published every time a claim is stored, including
// the one that triggers consensus.
type MatchResultRecorded struct {
	TournamentID  uuid.UUID `msgpack:"tournament_id"`
	MatchID       uuid.UUID `msgpack:"match_id"`
	ParticipantID uuid.UUID `msgpack:"participant_id"`
	ClaimedWinner uuid.UUID `msgpack:"claimed_winner"`
	Status        string    `msgpack:"status"`
	SubmittedAt   time.Time `msgpack:"submitted_at"`
}

// MatchCompleted is published when a match finalizes, by consensus, bye or
// administrative override.
type MatchCompleted struct {
	TournamentID uuid.UUID `msgpack:"tournament_id"`
	MatchID      uuid.UUID `msgpack:"match_id"`
	Round        int       `msgpack:"round"`
	WinnerID     uuid.UUID `msgpack:"winner_id"`
	Forced       bool      `msgpack:"forced"`
}

// MatchDispute is published when the two claims disagree on the winner.
type MatchDispute struct {
	TournamentID uuid.UUID `msgpack:"tournament_id"`
	MatchID      uuid.UUID `msgpack:"match_id"`
	Round        int       `msgpack:"round"`
}

// BracketCompleted is published when the final is decided.
type BracketCompleted struct {
	TournamentID uuid.UUID `msgpack:"tournament_id"`
	ChampionID   uuid.UUID `msgpack:"champion_id"`
}
