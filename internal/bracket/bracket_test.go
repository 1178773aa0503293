package bracket

import (
	"sync"
	"testing"

	"github.com/apasimboraymond02/Tournament-app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scheduledMatch returns the first round-1 match ready for submissions.
func scheduledMatch(t *testing.T, b *Bracket) Match {
	t.Helper()
	for _, m := range b.Matches() {
		if m.Status == MatchScheduled {
			return m
		}
	}
	t.Fatal("no scheduled match in bracket")
	return Match{}
}

func TestSubmitResultAwaitingConfirmation(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1 := *m.Slot1ID

	out, err := b.SubmitResult(m.ID, p1, p1, utils.Ptr(2), utils.Ptr(1), nil)
	require.NoError(t, err)

	assert.Equal(t, MatchAwaitingConfirmation, out.Match.Status)
	assert.False(t, out.Completed)
	assert.False(t, out.Disputed)
	assert.Nil(t, out.Match.WinnerID)
	assert.Nil(t, out.Advanced)

	// The counterpart never claimed anything yet
	updated, err := b.Match(m.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Claim1)
	assert.Equal(t, p1, updated.Claim1.WinnerID)
	assert.Nil(t, updated.Claim2)
}

func TestSubmitResultResubmissionOverwritesOwnClaim(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	_, err := b.SubmitResult(m.ID, p1, p1, nil, nil, nil)
	require.NoError(t, err)

	// Same participant changes their mind before the counterpart responds
	out, err := b.SubmitResult(m.ID, p1, p2, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, MatchAwaitingConfirmation, out.Match.Status)
	require.NotNil(t, out.Match.Claim1)
	assert.Equal(t, p2, out.Match.Claim1.WinnerID)
	assert.Nil(t, out.Match.Claim2)

	// The overwritten claim now agrees with the counterpart's
	out, err = b.SubmitResult(m.ID, p2, p2, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	require.NotNil(t, out.Match.WinnerID)
	assert.Equal(t, p2, *out.Match.WinnerID)
}

func TestSubmitResultConsensusFinalizesAndAdvances(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	_, err := b.SubmitResult(m.ID, p1, p1, utils.Ptr(3), utils.Ptr(1), utils.StringOrNil("https://replay.example/1"))
	require.NoError(t, err)

	out, err := b.SubmitResult(m.ID, p2, p1, utils.Ptr(3), utils.Ptr(2), nil)
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.Equal(t, MatchCompleted, out.Match.Status)
	require.NotNil(t, out.Match.WinnerID)
	assert.Equal(t, p1, *out.Match.WinnerID)
	require.NotNil(t, out.Match.FinalizedAt)

	// The triggering claim's payload became the result
	require.NotNil(t, out.Match.Score1)
	assert.Equal(t, 3, *out.Match.Score1)
	require.NotNil(t, out.Match.Score2)
	assert.Equal(t, 2, *out.Match.Score2)

	// Both claims are kept for audit
	assert.NotNil(t, out.Match.Claim1)
	assert.NotNil(t, out.Match.Claim2)

	// The winner landed in the successor slot named by the wiring
	require.NotNil(t, out.Advanced)
	next, err := b.Match(*m.NextMatchID)
	require.NoError(t, err)
	if *m.NextSlot == 1 {
		require.NotNil(t, next.Slot1ID)
		assert.Equal(t, p1, *next.Slot1ID)
	} else {
		require.NotNil(t, next.Slot2ID)
		assert.Equal(t, p1, *next.Slot2ID)
	}

	// Completed matches accept no further submissions
	_, err = b.SubmitResult(m.ID, p2, p2, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMatchNotSchedulable)
}

func TestSubmitResultDispute(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	_, err := b.SubmitResult(m.ID, p1, p1, nil, nil, nil)
	require.NoError(t, err)

	out, err := b.SubmitResult(m.ID, p2, p2, nil, nil, nil)
	require.NoError(t, err)

	assert.True(t, out.Disputed)
	assert.False(t, out.Completed)
	assert.Equal(t, MatchDispute, out.Match.Status)
	assert.Nil(t, out.Match.WinnerID)
	assert.Nil(t, out.Advanced)

	// No advancement happened
	next, err := b.Match(*m.NextMatchID)
	require.NoError(t, err)
	assert.Nil(t, next.Slot1ID)
	assert.Nil(t, next.Slot2ID)

	// Disputes are terminal for the submission path
	_, err = b.SubmitResult(m.ID, p1, p1, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMatchNotSchedulable)
}

func TestForceResultResolvesDispute(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	_, err := b.SubmitResult(m.ID, p1, p1, nil, nil, nil)
	require.NoError(t, err)
	_, err = b.SubmitResult(m.ID, p2, p2, nil, nil, nil)
	require.NoError(t, err)

	out, err := b.ForceResult(m.ID, p2, utils.Ptr(2), utils.Ptr(0))
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.Equal(t, MatchCompleted, out.Match.Status)
	require.NotNil(t, out.Match.WinnerID)
	assert.Equal(t, p2, *out.Match.WinnerID)
	require.NotNil(t, out.Advanced)

	_, err = b.ForceResult(m.ID, p1, nil, nil)
	assert.ErrorIs(t, err, ErrMatchNotSchedulable)
}

func TestForceResultValidation(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)

	_, err := b.ForceResult(m.ID, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrNotAParticipant)

	_, err = b.ForceResult(uuid.New(), *m.Slot1ID, nil, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSubmitResultValidation(t *testing.T) {
	b := buildTestBracket(t, 5)

	_, err := b.SubmitResult(uuid.New(), uuid.New(), uuid.New(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	m := scheduledMatch(t, b)
	stranger := uuid.New()

	// Unknown submitter records nothing
	_, err = b.SubmitResult(m.ID, stranger, *m.Slot1ID, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotAParticipant)

	// A claimed winner outside the match is structurally invalid
	_, err = b.SubmitResult(m.ID, *m.Slot1ID, stranger, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotAParticipant)

	unchanged, err := b.Match(m.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.Claim1)
	assert.Nil(t, unchanged.Claim2)

	for _, mm := range b.Matches() {
		switch mm.Status {
		case MatchPending:
			_, err := b.SubmitResult(mm.ID, uuid.New(), uuid.New(), nil, nil, nil)
			assert.ErrorIs(t, err, ErrMatchNotSchedulable, "pending match must reject claims")
		case MatchCompleted:
			// Byes complete at build and reject claims from their winner too
			_, err := b.SubmitResult(mm.ID, *mm.WinnerID, *mm.WinnerID, nil, nil, nil)
			assert.ErrorIs(t, err, ErrMatchNotSchedulable, "bye match must reject claims")
		}
	}
}

func TestFinalCompletesBracket(t *testing.T) {
	b := buildTestBracket(t, 2)

	final := scheduledMatch(t, b)
	require.Nil(t, final.NextMatchID)
	p1, p2 := *final.Slot1ID, *final.Slot2ID

	_, err := b.SubmitResult(final.ID, p1, p2, nil, nil, nil)
	require.NoError(t, err)
	out, err := b.SubmitResult(final.ID, p2, p2, nil, nil, nil)
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.True(t, out.BracketCompleted)
	assert.Nil(t, out.Advanced)
	assert.Equal(t, BracketCompleted, b.Status())
}

func TestConcurrentSubmissionsSameMatch(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	var wg sync.WaitGroup
	for _, submitter := range []uuid.UUID{p1, p2} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := b.SubmitResult(m.ID, id, p1, nil, nil, nil)
			assert.NoError(t, err)
		}(submitter)
	}
	wg.Wait()

	updated, err := b.Match(m.ID)
	require.NoError(t, err)
	assert.Equal(t, MatchCompleted, updated.Status)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, p1, *updated.WinnerID)

	// The successor slot was filled exactly once
	next, err := b.Match(*m.NextMatchID)
	require.NoError(t, err)
	filled := 0
	if next.Slot1ID != nil {
		filled++
	}
	if next.Slot2ID != nil {
		filled++
	}
	assert.Equal(t, 1, filled)
}

func TestConcurrentSiblingFinalization(t *testing.T) {
	b := buildTestBracket(t, 4)

	var round1 []Match
	for _, m := range b.Matches() {
		if m.Round == 1 {
			round1 = append(round1, m)
		}
	}
	require.Len(t, round1, 2)

	// Both siblings race into the same successor match
	var wg sync.WaitGroup
	for _, m := range round1 {
		wg.Add(1)
		go func(m Match) {
			defer wg.Done()
			winner := *m.Slot1ID
			_, err := b.SubmitResult(m.ID, *m.Slot1ID, winner, nil, nil, nil)
			assert.NoError(t, err)
			_, err = b.SubmitResult(m.ID, *m.Slot2ID, winner, nil, nil, nil)
			assert.NoError(t, err)
		}(m)
	}
	wg.Wait()

	final, err := b.Match(*round1[0].NextMatchID)
	require.NoError(t, err)
	assert.Equal(t, MatchScheduled, final.Status)
	assert.NotNil(t, final.Slot1ID)
	assert.NotNil(t, final.Slot2ID)
}

// Plays a 5-entrant tournament to its champion purely through the public
// submission path.
func TestPlayThroughTournament(t *testing.T) {
	b := buildTestBracket(t, 5)

	for i := 0; i < 10 && b.Status() != BracketCompleted; i++ {
		for _, m := range b.Matches() {
			if m.Status != MatchScheduled {
				continue
			}
			winner := *m.Slot1ID
			_, err := b.SubmitResult(m.ID, *m.Slot1ID, winner, utils.Ptr(1), utils.Ptr(0), nil)
			require.NoError(t, err)
			_, err = b.SubmitResult(m.ID, *m.Slot2ID, winner, utils.Ptr(1), utils.Ptr(0), nil)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, BracketCompleted, b.Status())
	for _, m := range b.Matches() {
		assert.Equal(t, MatchCompleted, m.Status)
		assert.NotNil(t, m.WinnerID)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	b := buildTestBracket(t, 4)
	m := scheduledMatch(t, b)
	p1, p2 := *m.Slot1ID, *m.Slot2ID

	_, err := b.SubmitResult(m.ID, p1, p1, utils.Ptr(2), utils.Ptr(0), nil)
	require.NoError(t, err)

	snap := b.Snapshot()
	var claims []Claim
	for _, mm := range snap.Matches {
		if mm.Claim1 != nil {
			claims = append(claims, *mm.Claim1)
		}
		if mm.Claim2 != nil {
			claims = append(claims, *mm.Claim2)
		}
	}

	restored, err := Restore(b.TournamentID, b.Format, BracketActive, snap.Matches, claims, snap.Participants)
	require.NoError(t, err)

	assert.Equal(t, b.Rounds(), restored.Rounds())
	assert.Len(t, restored.Matches(), len(snap.Matches))

	mid, err := restored.Match(m.ID)
	require.NoError(t, err)
	assert.Equal(t, MatchAwaitingConfirmation, mid.Status)
	require.NotNil(t, mid.Claim1)
	assert.Equal(t, p1, mid.Claim1.WinnerID)

	// The pending claim pair still resolves after the round trip
	out, err := restored.SubmitResult(m.ID, p2, p1, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, out.Completed)
}

func TestSnapshotShape(t *testing.T) {
	b := buildTestBracket(t, 5)
	snap := b.Snapshot()

	assert.Equal(t, b.TournamentID, snap.TournamentID)
	assert.Equal(t, SingleElimination, snap.Format)
	assert.Equal(t, BracketActive, snap.Status)
	assert.Equal(t, []int{1, 2, 3}, snap.Rounds)
	assert.Len(t, snap.Matches, 7)
	assert.Len(t, snap.Participants, 5)

	// Matches come out ordered by round then position
	for i := 1; i < len(snap.Matches); i++ {
		prev, cur := snap.Matches[i-1], snap.Matches[i]
		ordered := prev.Round < cur.Round || (prev.Round == cur.Round && prev.MatchOrder < cur.MatchOrder)
		assert.True(t, ordered, "snapshot matches out of order at %d", i)
	}
}
