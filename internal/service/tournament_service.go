package service

import (
	"context"
	"fmt"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/apasimboraymond02/Tournament-app/internal/events"
	"github.com/apasimboraymond02/Tournament-app/internal/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TournamentService owns the bracket lifecycle: generation, lookup,
// rehydration and archival. The in-memory registry holds the authoritative
// bracket state; SQLite writes happen outside the engine's locks.
type TournamentService struct {
	db       *sqlx.DB
	registry *store.BracketStore
	store    *store.TournamentStore
	events   events.Publisher
}

func NewTournamentService(db *sqlx.DB, registry *store.BracketStore, tournamentStore *store.TournamentStore, publisher events.Publisher) *TournamentService {
	return &TournamentService{db: db, registry: registry, store: tournamentStore, events: publisher}
}

// ParticipantInput references an externally registered participant. A nil ID
// gets a fresh one assigned, which the CLI uses for demo participants.
type ParticipantInput struct {
	ID   uuid.UUID
	Name string
}

// GenerateBracket builds and registers the bracket for a tournament. Fails
// with ErrBracketExists when a bracket was already generated and with
// ErrInsufficientParticipants below 2 entrants.
func (s *TournamentService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID, inputs []ParticipantInput, format bracket.Format) (bracket.Snapshot, error) {
	participants := make([]bracket.Participant, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		participants = append(participants, bracket.Participant{ID: id, Name: in.Name})
	}

	b, err := bracket.Build(tournamentID, participants, format, nil)
	if err != nil {
		return bracket.Snapshot{}, err
	}

	// Put is atomic, so racing generation calls cannot both register.
	if err := s.registry.Put(b); err != nil {
		return bracket.Snapshot{}, err
	}

	snap := b.Snapshot()
	if err := s.persistBracket(ctx, b, snap); err != nil {
		// The live bracket stays authoritative; a failed write-behind must be
		// loud but does not fail the generation.
		log.Error("failed to persist generated bracket", "tournament_id", tournamentID, "error", err)
	}

	log.Info("bracket generated", "tournament_id", tournamentID, "participants", len(participants), "rounds", b.Rounds())
	return snap, nil
}

func (s *TournamentService) persistBracket(ctx context.Context, b *bracket.Bracket, snap bracket.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tournament := &bracket.Tournament{
		ID:     b.TournamentID,
		Format: b.Format,
		Status: bracket.TournamentActive,
	}
	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	if err := s.store.CreateParticipants(ctx, tx, snap.Participants); err != nil {
		return fmt.Errorf("create participants: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, snap.Matches); err != nil {
		return fmt.Errorf("create matches: %w", err)
	}

	return tx.Commit()
}

// GetBracket returns the full snapshot of a live bracket.
func (s *TournamentService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (bracket.Snapshot, error) {
	b, err := s.registry.Get(tournamentID)
	if err != nil {
		return bracket.Snapshot{}, err
	}
	return b.Snapshot(), nil
}

// ArchiveTournament tears the bracket out of the live registry and marks the
// tournament archived. Submissions against an archived tournament fail with
// ErrBracketNotFound from then on.
func (s *TournamentService) ArchiveTournament(ctx context.Context, tournamentID uuid.UUID) error {
	if _, err := s.registry.Get(tournamentID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID.String(), bracket.TournamentArchived); err != nil {
		return fmt.Errorf("archive tournament: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.registry.Remove(tournamentID)
	log.Info("tournament archived", "tournament_id", tournamentID)
	return nil
}

// LoadActive rehydrates every active tournament from SQLite into the
// registry. Called once at startup, before the HTTP server accepts traffic.
func (s *TournamentService) LoadActive(ctx context.Context) error {
	tournaments, err := s.store.GetActiveTournaments(ctx)
	if err != nil {
		return fmt.Errorf("load active tournaments: %w", err)
	}

	for _, t := range tournaments {
		participants, err := s.store.GetParticipants(ctx, t.ID.String())
		if err != nil {
			return fmt.Errorf("load participants for %s: %w", t.ID, err)
		}
		matches, err := s.store.GetMatches(ctx, t.ID.String())
		if err != nil {
			return fmt.Errorf("load matches for %s: %w", t.ID, err)
		}
		claims, err := s.store.GetClaims(ctx, t.ID.String())
		if err != nil {
			return fmt.Errorf("load claims for %s: %w", t.ID, err)
		}

		b, err := bracket.Restore(t.ID, t.Format, bracket.BracketActive, matches, claims, participants)
		if err != nil {
			return err
		}
		if err := s.registry.Put(b); err != nil {
			return err
		}
	}

	if len(tournaments) > 0 {
		log.Info("rehydrated live brackets", "count", len(tournaments))
	}
	return nil
}
