package bracket

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/apasimboraymond02/Tournament-app/internal/utils"
	"github.com/google/uuid"
)

// Build assembles the full single-elimination match graph for a tournament:
// seeding is randomized by shuffling the participant sequence, the bracket is
// padded with byes up to the next power of two, every round's matches are
// created up front with their successor links wired, and bye winners are
// propagated forward before the bracket is handed back. A nil rng falls back
// to a time-seeded source; tests inject a fixed seed.
func Build(tournamentID uuid.UUID, participants []Participant, format Format, rng *rand.Rand) (*Bracket, error) {
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}
	if format == "" {
		format = SingleElimination
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seeded := make([]Participant, len(participants))
	copy(seeded, participants)
	rng.Shuffle(len(seeded), func(i, j int) { seeded[i], seeded[j] = seeded[j], seeded[i] })
	for i := range seeded {
		seeded[i].TournamentID = tournamentID
		seeded[i].Seed = i + 1
	}

	bracketSize := calcBracketSize(len(seeded))
	totalRounds := int(math.Log2(float64(bracketSize)))

	matches := buildMatchGraph(tournamentID, totalRounds)

	round1 := make([]*Match, 0, bracketSize/2)
	for _, m := range matches {
		if m.Round == 1 {
			round1 = append(round1, m)
		}
	}

	now := time.Now().UTC()
	pairs := generateRound1Pairs(bracketSize)
	for i, pair := range pairs {
		m := round1[i]
		if pair[0] < len(seeded) {
			id := seeded[pair[0]].ID
			m.Slot1ID = &id
		}
		if pair[1] < len(seeded) {
			id := seeded[pair[1]].ID
			m.Slot2ID = &id
		}

		switch {
		case m.bothSlotsFilled():
			m.Status = MatchScheduled
		case m.Slot1ID != nil:
			m.IsBye = true
			m.finalize(*m.Slot1ID, nil, nil, nil, now)
		case m.Slot2ID != nil:
			m.IsBye = true
			m.finalize(*m.Slot2ID, nil, nil, nil, now)
		}
	}

	b := newBracket(tournamentID, format, totalRounds, matches, seeded)
	b.cascadeByes()
	return b, nil
}

// buildMatchGraph creates every match of every round with empty slots and
// wires the successor links. Built from the final backwards so each round's
// successor ids exist before the links are materialized.
func buildMatchGraph(tournamentID uuid.UUID, totalRounds int) []*Match {
	var matches []*Match
	now := time.Now().UTC()

	nextRoundMatchIDs := make(map[int]uuid.UUID)

	for r := totalRounds; r >= 1; r-- {
		matchesInRound := 1 << (totalRounds - r)
		currentRoundMatchIDs := make(map[int]uuid.UUID)

		for i := 0; i < matchesInRound; i++ {
			matchOrder := i + 1
			m := &Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				Round:        r,
				MatchOrder:   matchOrder,
				Status:       MatchPending,
				CreatedAt:    now,
			}

			if r < totalRounds {
				parentOrder := (matchOrder + 1) / 2
				parentID := nextRoundMatchIDs[parentOrder]
				m.NextMatchID = &parentID

				// Odd match orders feed slot 1, even orders slot 2
				if matchOrder%2 != 0 {
					m.NextSlot = utils.Ptr(1)
				} else {
					m.NextSlot = utils.Ptr(2)
				}
			}

			matches = append(matches, m)
			currentRoundMatchIDs[matchOrder] = m.ID
		}
		nextRoundMatchIDs = currentRoundMatchIDs
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchOrder < matches[j].MatchOrder
	})

	return matches
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// generateRound1Pairs lays out the classic seeded-bracket fold: position i is
// paired with position bracketSize-1-i, recursively interleaved so the top
// seeds cannot meet before the late rounds.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// cascadeByes propagates build-time bye winners forward until no completed
// match remains unpropagated. A chain of byes can fill an entire early branch
// before any real match is played. Runs before the bracket is published, so
// no locking is needed.
func (b *Bracket) cascadeByes() {
	propagated := make(map[uuid.UUID]bool)
	for {
		progressed := false
		for _, m := range b.ordered {
			if m.Status != MatchCompleted || propagated[m.ID] {
				continue
			}
			propagated[m.ID] = true
			progressed = true

			if m.NextMatchID == nil {
				continue
			}
			next := b.matches[*m.NextMatchID]
			placeWinner(next, *m.NextSlot, *m.WinnerID)
		}
		if !progressed {
			break
		}
	}
}
