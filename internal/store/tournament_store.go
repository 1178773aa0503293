package store

import (
	"context"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/jmoiron/sqlx"
)

// TournamentStore persists bracket state to SQLite. The in-memory engine is
// authoritative; this store is the write-behind audit log and the source for
// rehydrating live brackets at startup.
type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, format, status)
        VALUES (:id, :format, :status)`, tournament)
	return err
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, tx *sqlx.Tx, participants []bracket.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO participants (id, tournament_id, name, seed)
            VALUES (:id, :tournament_id, :name, :seed)`, participants)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, round_number, match_order, slot_1_id, slot_2_id, status, winner_id, next_match_id, next_slot, is_bye, score_1, score_2, proof, finalized_at)
		VALUES (:id, :tournament_id, :round_number, :match_order, :slot_1_id, :slot_2_id, :status, :winner_id, :next_match_id, :next_slot, :is_bye, :score_1, :score_2, :proof, :finalized_at)`, matches)
	return err
}

func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET
		slot_1_id = :slot_1_id,
		slot_2_id = :slot_2_id,
		status = :status,
		winner_id = :winner_id,
		score_1 = :score_1,
		score_2 = :score_2,
		proof = :proof,
		finalized_at = :finalized_at
		WHERE id = :id`, match)
	return err
}

// UpsertClaim keeps at most one persisted claim per participant per match,
// mirroring the engine's overwrite-on-resubmit rule.
func (s *TournamentStore) UpsertClaim(ctx context.Context, tx *sqlx.Tx, claim *bracket.Claim) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO claims (match_id, participant_id, winner_id, score_1, score_2, proof, submitted_at)
		VALUES (:match_id, :participant_id, :winner_id, :score_1, :score_2, :proof, :submitted_at)
		ON CONFLICT (match_id, participant_id) DO UPDATE SET
			winner_id = excluded.winner_id,
			score_1 = excluded.score_1,
			score_2 = excluded.score_2,
			proof = excluded.proof,
			submitted_at = excluded.submitted_at`, claim)
	return err
}

func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, tx *sqlx.Tx, tournamentID string, status bracket.TournamentStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE tournaments SET status = ? WHERE id = ?", status, tournamentID)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) GetActiveTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments WHERE status = ? ORDER BY created_at ASC", bracket.TournamentActive)
	return tournaments, err
}

func (s *TournamentStore) GetParticipants(ctx context.Context, tournamentID string) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := s.db.SelectContext(ctx, &participants, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY seed ASC", tournamentID)
	return participants, err
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID string) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetClaims(ctx context.Context, tournamentID string) ([]bracket.Claim, error) {
	var claims []bracket.Claim
	err := s.db.SelectContext(ctx, &claims, `SELECT c.* FROM claims c
		JOIN matches m ON m.id = c.match_id
		WHERE m.tournament_id = ?
		ORDER BY c.submitted_at ASC`, tournamentID)
	return claims, err
}
