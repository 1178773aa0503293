package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	// MatchPending means a required predecessor slot is still empty.
	MatchPending MatchStatus = "pending"
	// MatchScheduled means both slots are filled and no result has arrived.
	MatchScheduled MatchStatus = "scheduled"
	// MatchAwaitingConfirmation means exactly one claim has been received.
	MatchAwaitingConfirmation MatchStatus = "awaiting_confirmation"
	// MatchDispute means the two claims disagree on the winner; the match is
	// parked until an administrator forces a result.
	MatchDispute MatchStatus = "dispute"
	// MatchCompleted means the result is finalized and the winner advanced.
	MatchCompleted MatchStatus = "completed"
)

// Claim is one participant's self-reported outcome for a match. At most one
// live claim exists per participant per match; a resubmission overwrites the
// previous one.
type Claim struct {
	MatchID       uuid.UUID `db:"match_id" json:"match_id"`
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id"`
	WinnerID      uuid.UUID `db:"winner_id" json:"winner_id"`
	Score1        *int      `db:"score_1" json:"score_1,omitempty"`
	Score2        *int      `db:"score_2" json:"score_2,omitempty"`
	Proof         *string   `db:"proof" json:"proof,omitempty"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}

// Match is one node in the bracket graph.
type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the bracket for reconstructing the graph
	Round      int `db:"round_number" json:"round"`
	MatchOrder int `db:"match_order" json:"match_order"`

	Slot1ID *uuid.UUID `db:"slot_1_id" json:"slot_1_id,omitempty"`
	Slot2ID *uuid.UUID `db:"slot_2_id" json:"slot_2_id,omitempty"`

	Status   MatchStatus `db:"status" json:"status"`
	WinnerID *uuid.UUID  `db:"winner_id" json:"winner_id,omitempty"`

	NextMatchID *uuid.UUID `db:"next_match_id" json:"next_match_id,omitempty"`
	NextSlot    *int       `db:"next_slot" json:"next_slot,omitempty"`

	IsBye bool `db:"is_bye" json:"is_bye"`

	// Finalized result payload, set once on completion
	Score1      *int       `db:"score_1" json:"score_1,omitempty"`
	Score2      *int       `db:"score_2" json:"score_2,omitempty"`
	Proof       *string    `db:"proof" json:"proof,omitempty"`
	FinalizedAt *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Per-slot claim storage. A match has exactly two possible claimants, so
	// two fixed slots replace a dynamic map.
	Claim1 *Claim `db:"-" json:"claim_1,omitempty"`
	Claim2 *Claim `db:"-" json:"claim_2,omitempty"`
}

// SlotOf returns 1 or 2 for the slot holding the given participant, 0 if the
// participant is not in the match.
func (m *Match) SlotOf(participantID uuid.UUID) int {
	if m.Slot1ID != nil && *m.Slot1ID == participantID {
		return 1
	}
	if m.Slot2ID != nil && *m.Slot2ID == participantID {
		return 2
	}
	return 0
}

// Schedulable reports whether the match accepts result claims.
func (m *Match) Schedulable() bool {
	return m.Status == MatchScheduled || m.Status == MatchAwaitingConfirmation
}

// IsFinal reports whether the match has no successor.
func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

func (m *Match) bothSlotsFilled() bool {
	return m.Slot1ID != nil && m.Slot2ID != nil
}

func (m *Match) setClaim(slot int, c *Claim) {
	if slot == 1 {
		m.Claim1 = c
	} else {
		m.Claim2 = c
	}
}

// finalize records the winning result and moves the match to completed. The
// caller is responsible for having validated the winner and status.
func (m *Match) finalize(winnerID uuid.UUID, score1, score2 *int, proof *string, at time.Time) {
	w := winnerID
	m.WinnerID = &w
	m.Score1 = score1
	m.Score2 = score2
	m.Proof = proof
	m.FinalizedAt = &at
	m.Status = MatchCompleted
}

// clone returns a detached copy safe to hand outside the bracket's locks.
func (m *Match) clone() Match {
	out := *m
	out.Slot1ID = cloneID(m.Slot1ID)
	out.Slot2ID = cloneID(m.Slot2ID)
	out.WinnerID = cloneID(m.WinnerID)
	out.NextMatchID = cloneID(m.NextMatchID)
	out.NextSlot = cloneInt(m.NextSlot)
	out.Score1 = cloneInt(m.Score1)
	out.Score2 = cloneInt(m.Score2)
	out.Proof = cloneString(m.Proof)
	if m.FinalizedAt != nil {
		t := *m.FinalizedAt
		out.FinalizedAt = &t
	}
	out.Claim1 = cloneClaim(m.Claim1)
	out.Claim2 = cloneClaim(m.Claim2)
	return out
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneClaim(c *Claim) *Claim {
	if c == nil {
		return nil
	}
	out := *c
	out.Score1 = cloneInt(c.Score1)
	out.Score2 = cloneInt(c.Score2)
	out.Proof = cloneString(c.Proof)
	return &out
}
