package main

import (
	"fmt"
	"strings"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/apasimboraymond02/Tournament-app/internal/db"
	"github.com/apasimboraymond02/Tournament-app/internal/events"
	"github.com/apasimboraymond02/Tournament-app/internal/service"
	"github.com/apasimboraymond02/Tournament-app/internal/store"
	"github.com/apasimboraymond02/Tournament-app/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a demo bracket with placeholder participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			database := db.InitDB(dbPath)
			defer database.Close()

			if err := db.RunMigrations(database.DB, migrationsDir); err != nil {
				return err
			}

			registry := store.NewBracketStore()
			tournamentStore := store.NewTournamentStore(database)
			tournaments := service.NewTournamentService(database, registry, tournamentStore, events.Noop{})

			inputs := make([]service.ParticipantInput, count)
			for i := range inputs {
				inputs[i] = service.ParticipantInput{Name: fmt.Sprintf("Player %d", i+1)}
			}

			tournamentID := uuid.New()
			snapshot, err := tournaments.GenerateBracket(cmd.Context(), tournamentID, inputs, bracket.SingleElimination)
			if err != nil {
				return err
			}

			fmt.Printf("Tournament %s generated: %d participants, %d matches, %d rounds\n",
				tournamentID, len(snapshot.Participants), len(snapshot.Matches), len(snapshot.Rounds))
			printMatches(snapshot.Matches)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "participants", 8, "Number of demo participants")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <tournament-id>",
		Short: "Print the persisted bracket state of a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := db.InitDB(dbPath)
			defer database.Close()

			tournamentStore := store.NewTournamentStore(database)

			tournament, err := tournamentStore.GetTournament(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load tournament: %w", err)
			}
			matches, err := tournamentStore.GetMatches(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load matches: %w", err)
			}

			fmt.Printf("Tournament %s [%s] status=%s\n", tournament.ID, tournament.Format, tournament.Status)
			printMatches(matches)
			return nil
		},
	}
}

func printMatches(matches []bracket.Match) {
	round := 0
	for _, m := range matches {
		if m.Round != round {
			round = m.Round
			fmt.Printf("Round %d\n", round)
		}

		line := fmt.Sprintf("  M%d %s vs %s [%s]", m.MatchOrder, slotLabel(m.Slot1ID), slotLabel(m.Slot2ID), m.Status)
		if m.WinnerID != nil {
			line += fmt.Sprintf(" winner=%s %d-%d", shortID(*m.WinnerID), utils.OrZero(m.Score1), utils.OrZero(m.Score2))
		}
		if m.IsBye {
			line += " (bye)"
		}
		fmt.Println(line)
	}
}

func slotLabel(id *uuid.UUID) string {
	if id == nil {
		return "--------"
	}
	return shortID(*id)
}

func shortID(id uuid.UUID) string {
	return strings.SplitN(id.String(), "-", 2)[0]
}
