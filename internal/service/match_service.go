package service

import (
	"context"
	"time"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/apasimboraymond02/Tournament-app/internal/events"
	"github.com/apasimboraymond02/Tournament-app/internal/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MatchService handles result submission against live brackets: claim
// recording, consensus resolution, advancement, plus the administrative
// override for disputed matches. Persistence and event publishing happen
// after the engine's critical section has released its locks.
type MatchService struct {
	db       *sqlx.DB
	registry *store.BracketStore
	store    *store.TournamentStore
	events   events.Publisher
}

func NewMatchService(db *sqlx.DB, registry *store.BracketStore, tournamentStore *store.TournamentStore, publisher events.Publisher) *MatchService {
	return &MatchService{db: db, registry: registry, store: tournamentStore, events: publisher}
}

// ResultInput is one participant's claim about a match outcome.
type ResultInput struct {
	SubmitterID uuid.UUID
	WinnerID    uuid.UUID
	Score1      *int
	Score2      *int
	Proof       *string
}

// GetMatch returns a copy of one match of a live bracket.
func (s *MatchService) GetMatch(ctx context.Context, tournamentID, matchID uuid.UUID) (bracket.Match, error) {
	b, err := s.registry.Get(tournamentID)
	if err != nil {
		return bracket.Match{}, err
	}
	return b.Match(matchID)
}

// SubmitMatchResult records a participant's claim and applies the consensus
// decision: first claim parks the match, agreement finalizes and advances the
// winner, disagreement opens a dispute.
func (s *MatchService) SubmitMatchResult(ctx context.Context, tournamentID, matchID uuid.UUID, in ResultInput) (bracket.Match, error) {
	b, err := s.registry.Get(tournamentID)
	if err != nil {
		return bracket.Match{}, err
	}

	out, err := b.SubmitResult(matchID, in.SubmitterID, in.WinnerID, in.Score1, in.Score2, in.Proof)
	if err != nil {
		return bracket.Match{}, err
	}

	s.persistOutcome(ctx, tournamentID, out)

	s.publish(events.EventMatchResultRecorded, events.MatchResultRecorded{
		TournamentID:  tournamentID,
		MatchID:       matchID,
		ParticipantID: in.SubmitterID,
		ClaimedWinner: in.WinnerID,
		Status:        string(out.Match.Status),
		SubmittedAt:   time.Now().UTC(),
	})
	s.publishTransitions(tournamentID, out, false)

	return out.Match, nil
}

// ForceMatchResult finalizes a match directly, bypassing the agreement check.
// This is the adjudication path out of a dispute; the forced result routes
// through the same finalize and advancement as a consensus.
func (s *MatchService) ForceMatchResult(ctx context.Context, tournamentID, matchID, winnerID uuid.UUID, score1, score2 *int) (bracket.Match, error) {
	b, err := s.registry.Get(tournamentID)
	if err != nil {
		return bracket.Match{}, err
	}

	out, err := b.ForceResult(matchID, winnerID, score1, score2)
	if err != nil {
		return bracket.Match{}, err
	}

	s.persistOutcome(ctx, tournamentID, out)
	s.publishTransitions(tournamentID, out, true)

	return out.Match, nil
}

func (s *MatchService) publishTransitions(tournamentID uuid.UUID, out bracket.Outcome, forced bool) {
	if out.Disputed {
		s.publish(events.EventMatchDispute, events.MatchDispute{
			TournamentID: tournamentID,
			MatchID:      out.Match.ID,
			Round:        out.Match.Round,
		})
	}
	if out.Completed {
		s.publish(events.EventMatchCompleted, events.MatchCompleted{
			TournamentID: tournamentID,
			MatchID:      out.Match.ID,
			Round:        out.Match.Round,
			WinnerID:     *out.Match.WinnerID,
			Forced:       forced,
		})
	}
	if out.BracketCompleted {
		s.publish(events.EventBracketCompleted, events.BracketCompleted{
			TournamentID: tournamentID,
			ChampionID:   *out.Match.WinnerID,
		})
	}
}

func (s *MatchService) publish(topic events.EventType, data any) {
	if err := s.events.Publish(topic, data); err != nil {
		log.Error("failed to publish event", "topic", topic, "error", err)
	}
}

// persistOutcome writes the submission's effects behind the live state: the
// mutated match, its claims, the advanced successor and, when the final was
// decided, the tournament status. Runs strictly after the engine's locks are
// released; failures are logged, never surfaced to the submitter.
func (s *MatchService) persistOutcome(ctx context.Context, tournamentID uuid.UUID, out bracket.Outcome) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to open persistence tx", "tournament_id", tournamentID, "error", err)
		return
	}
	defer tx.Rollback()

	m := out.Match
	if err := s.store.UpdateMatch(ctx, tx, &m); err != nil {
		log.Error("failed to persist match", "match_id", m.ID, "error", err)
		return
	}
	for _, c := range []*bracket.Claim{m.Claim1, m.Claim2} {
		if c == nil {
			continue
		}
		if err := s.store.UpsertClaim(ctx, tx, c); err != nil {
			log.Error("failed to persist claim", "match_id", m.ID, "participant_id", c.ParticipantID, "error", err)
			return
		}
	}
	if out.Advanced != nil {
		if err := s.store.UpdateMatch(ctx, tx, out.Advanced); err != nil {
			log.Error("failed to persist advanced match", "match_id", out.Advanced.ID, "error", err)
			return
		}
	}
	if out.BracketCompleted {
		if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID.String(), bracket.TournamentCompleted); err != nil {
			log.Error("failed to persist tournament status", "tournament_id", tournamentID, "error", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit submission persistence", "tournament_id", tournamentID, "error", err)
	}
}
