package bracket

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type BracketStatus string

const (
	BracketActive    BracketStatus = "active"
	BracketCompleted BracketStatus = "completed"
)

// Bracket is the aggregate root for one tournament's match graph. The match
// set is immutable after construction; matches mutate only through claim,
// status, winner and slot-fill transitions, each serialized by a per-match
// lock. Advancement takes the successor's lock while holding the
// predecessor's; the successor is always in a later round, so the lock order
// is globally consistent and deadlock free.
type Bracket struct {
	TournamentID uuid.UUID
	Format       Format

	rounds       int
	matches      map[uuid.UUID]*Match
	ordered      []*Match // round asc, match order asc
	participants []Participant

	locks map[uuid.UUID]*sync.Mutex

	mu     sync.RWMutex // guards status
	status BracketStatus
}

// Snapshot is a read-only view of the full bracket state.
type Snapshot struct {
	TournamentID uuid.UUID     `json:"tournament_id"`
	Format       Format        `json:"format"`
	Status       BracketStatus `json:"status"`
	Rounds       []int         `json:"rounds"`
	Participants []Participant `json:"participants"`
	Matches      []Match       `json:"matches"`
}

// Outcome describes the transitions triggered by one finalize or submission.
type Outcome struct {
	// Match is the post-transition copy of the submitted match.
	Match Match
	// Advanced is the updated successor match when a winner moved forward.
	Advanced *Match
	// Completed is set when consensus (or a forced result) finalized the match.
	Completed bool
	// Disputed is set when the two claims named different winners.
	Disputed bool
	// BracketCompleted is set when the finalized match was the final.
	BracketCompleted bool
}

func newBracket(tournamentID uuid.UUID, format Format, rounds int, matches []*Match, participants []Participant) *Bracket {
	b := &Bracket{
		TournamentID: tournamentID,
		Format:       format,
		rounds:       rounds,
		matches:      make(map[uuid.UUID]*Match, len(matches)),
		ordered:      matches,
		participants: participants,
		locks:        make(map[uuid.UUID]*sync.Mutex, len(matches)),
		status:       BracketActive,
	}
	for _, m := range matches {
		b.matches[m.ID] = m
		b.locks[m.ID] = &sync.Mutex{}
	}
	return b
}

// Restore rebuilds a bracket aggregate from persisted rows.
func Restore(tournamentID uuid.UUID, format Format, status BracketStatus, matches []Match, claims []Claim, participants []Participant) (*Bracket, error) {
	ptrs := make([]*Match, len(matches))
	byID := make(map[uuid.UUID]*Match, len(matches))
	for i := range matches {
		m := matches[i].clone()
		ptrs[i] = &m
		byID[m.ID] = &m
	}
	sort.Slice(ptrs, func(i, j int) bool {
		if ptrs[i].Round != ptrs[j].Round {
			return ptrs[i].Round < ptrs[j].Round
		}
		return ptrs[i].MatchOrder < ptrs[j].MatchOrder
	})

	rounds := 0
	for _, m := range ptrs {
		if m.Round > rounds {
			rounds = m.Round
		}
		if m.NextMatchID != nil {
			if _, ok := byID[*m.NextMatchID]; !ok {
				return nil, fmt.Errorf("restore bracket %s: match %s links to unknown successor %s", tournamentID, m.ID, *m.NextMatchID)
			}
		}
	}

	for i := range claims {
		c := claims[i]
		m, ok := byID[c.MatchID]
		if !ok {
			return nil, fmt.Errorf("restore bracket %s: claim references unknown match %s", tournamentID, c.MatchID)
		}
		slot := m.SlotOf(c.ParticipantID)
		if slot == 0 {
			return nil, fmt.Errorf("restore bracket %s: claim from %s does not match a slot of match %s", tournamentID, c.ParticipantID, c.MatchID)
		}
		m.setClaim(slot, cloneClaim(&c))
	}

	b := newBracket(tournamentID, format, rounds, ptrs, participants)
	b.status = status
	return b, nil
}

// Status returns the current bracket status.
func (b *Bracket) Status() BracketStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Rounds returns the number of rounds in the bracket.
func (b *Bracket) Rounds() int {
	return b.rounds
}

// Participants returns the seeded participant list.
func (b *Bracket) Participants() []Participant {
	out := make([]Participant, len(b.participants))
	copy(out, b.participants)
	return out
}

// Match returns a detached copy of the identified match.
func (b *Bracket) Match(matchID uuid.UUID) (Match, error) {
	m, ok := b.matches[matchID]
	if !ok {
		return Match{}, ErrMatchNotFound
	}
	mu := b.locks[matchID]
	mu.Lock()
	defer mu.Unlock()
	return m.clone(), nil
}

// Matches returns detached copies of all matches in round order.
func (b *Bracket) Matches() []Match {
	out := make([]Match, 0, len(b.ordered))
	for _, m := range b.ordered {
		mu := b.locks[m.ID]
		mu.Lock()
		out = append(out, m.clone())
		mu.Unlock()
	}
	return out
}

// Snapshot returns a read-only view of the whole bracket.
func (b *Bracket) Snapshot() Snapshot {
	roundList := make([]int, b.rounds)
	for i := range roundList {
		roundList[i] = i + 1
	}
	return Snapshot{
		TournamentID: b.TournamentID,
		Format:       b.Format,
		Status:       b.Status(),
		Rounds:       roundList,
		Participants: b.Participants(),
		Matches:      b.Matches(),
	}
}

// SubmitResult records one participant's claim against a match and resolves
// the claim pair: a single claim parks the match in awaiting_confirmation,
// agreement finalizes and advances the winner, disagreement flags a dispute.
// The claim write, consensus evaluation, finalize and advancement run as one
// critical section under the match's lock.
func (b *Bracket) SubmitResult(matchID, submitterID, claimedWinnerID uuid.UUID, score1, score2 *int, proof *string) (Outcome, error) {
	m, ok := b.matches[matchID]
	if !ok {
		return Outcome{}, ErrMatchNotFound
	}

	mu := b.locks[matchID]
	mu.Lock()
	defer mu.Unlock()

	if !m.Schedulable() {
		return Outcome{}, ErrMatchNotSchedulable
	}
	slot := m.SlotOf(submitterID)
	if slot == 0 {
		return Outcome{}, ErrNotAParticipant
	}
	if m.SlotOf(claimedWinnerID) == 0 {
		return Outcome{}, ErrNotAParticipant
	}

	c := &Claim{
		MatchID:       matchID,
		ParticipantID: submitterID,
		WinnerID:      claimedWinnerID,
		Score1:        score1,
		Score2:        score2,
		Proof:         proof,
		SubmittedAt:   time.Now().UTC(),
	}
	m.setClaim(slot, c)

	var out Outcome
	switch {
	case m.Claim1 == nil || m.Claim2 == nil:
		m.Status = MatchAwaitingConfirmation
	case m.Claim1.WinnerID == m.Claim2.WinnerID:
		// Consensus. The triggering claim's payload becomes the result; both
		// claims are kept for audit.
		m.finalize(c.WinnerID, cloneInt(c.Score1), cloneInt(c.Score2), cloneString(c.Proof), time.Now().UTC())
		out.Completed = true
		out.BracketCompleted, out.Advanced = b.advance(m)
	default:
		m.Status = MatchDispute
		out.Disputed = true
	}

	out.Match = m.clone()
	return out, nil
}

// ForceResult finalizes a match directly, bypassing the agreement check. This
// is the administrative override path out of a dispute; it runs through the
// same advancement as a consensus finalize.
func (b *Bracket) ForceResult(matchID, winnerID uuid.UUID, score1, score2 *int) (Outcome, error) {
	m, ok := b.matches[matchID]
	if !ok {
		return Outcome{}, ErrMatchNotFound
	}

	mu := b.locks[matchID]
	mu.Lock()
	defer mu.Unlock()

	switch m.Status {
	case MatchScheduled, MatchAwaitingConfirmation, MatchDispute:
	default:
		return Outcome{}, ErrMatchNotSchedulable
	}
	if m.SlotOf(winnerID) == 0 {
		return Outcome{}, ErrNotAParticipant
	}

	m.finalize(winnerID, score1, score2, nil, time.Now().UTC())
	out := Outcome{Completed: true}
	out.BracketCompleted, out.Advanced = b.advance(m)
	out.Match = m.clone()
	return out, nil
}

// advance moves a just-finalized match's winner into its successor slot, or
// completes the bracket when the match was the final. The caller holds m's
// lock; the successor lock is taken here (predecessor before successor).
func (b *Bracket) advance(m *Match) (bracketCompleted bool, advanced *Match) {
	if m.WinnerID == nil {
		panic(fmt.Sprintf("bracket %s: advance called on match %s without a winner", b.TournamentID, m.ID))
	}
	if m.NextMatchID == nil {
		b.mu.Lock()
		b.status = BracketCompleted
		b.mu.Unlock()
		return true, nil
	}

	next, ok := b.matches[*m.NextMatchID]
	if !ok || m.NextSlot == nil {
		panic(fmt.Sprintf("bracket %s: match %s has a dangling successor link", b.TournamentID, m.ID))
	}

	nl := b.locks[next.ID]
	nl.Lock()
	defer nl.Unlock()

	placeWinner(next, *m.NextSlot, *m.WinnerID)
	c := next.clone()
	return false, &c
}

// placeWinner fills one successor slot and schedules the successor once both
// slots hold participants. A collision means the bracket graph is corrupt and
// is treated as a fatal programming error.
func placeWinner(next *Match, slot int, winnerID uuid.UUID) {
	if next.Status == MatchCompleted {
		panic(fmt.Sprintf("match %s: advancing into an already completed match", next.ID))
	}
	switch slot {
	case 1:
		if next.Slot1ID != nil {
			panic(fmt.Sprintf("match %s: slot 1 already occupied", next.ID))
		}
		next.Slot1ID = &winnerID
	case 2:
		if next.Slot2ID != nil {
			panic(fmt.Sprintf("match %s: slot 2 already occupied", next.ID))
		}
		next.Slot2ID = &winnerID
	default:
		panic(fmt.Sprintf("match %s: invalid successor slot %d", next.ID, slot))
	}

	if next.bothSlotsFilled() && next.Status == MatchPending {
		next.Status = MatchScheduled
	}
}
