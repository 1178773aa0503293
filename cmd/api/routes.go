package main

import (
	"encoding/json"
	"net/http"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/apasimboraymond02/Tournament-app/internal/httputil"
	"github.com/apasimboraymond02/Tournament-app/internal/service"
	"github.com/apasimboraymond02/Tournament-app/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type generateBracketRequest struct {
	Format       string `json:"format"`
	Participants []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"participants"`
}

type submitResultRequest struct {
	SubmitterID string `json:"submitter_id"`
	WinnerID    string `json:"winner_id"`
	Score1      *int   `json:"score_1"`
	Score2      *int   `json:"score_2"`
	Proof       string `json:"proof"`
}

type forceResultRequest struct {
	WinnerID string `json:"winner_id"`
	Score1   *int   `json:"score_1"`
	Score2   *int   `json:"score_2"`
}

func newRouter(tournaments *service.TournamentService, matches *service.MatchService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/tournaments/{id}", func(r chi.Router) {
		r.Post("/bracket", func(w http.ResponseWriter, req *http.Request) {
			tournamentID, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}

			var body generateBracketRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			format := bracket.Format(body.Format)
			if format == "" {
				format = bracket.SingleElimination
			}

			inputs := make([]service.ParticipantInput, 0, len(body.Participants))
			for _, p := range body.Participants {
				in := service.ParticipantInput{Name: p.Name}
				if p.ID != "" {
					id, err := uuid.Parse(p.ID)
					if err != nil {
						httputil.BadRequest(w, "Invalid participant ID", err)
						return
					}
					in.ID = id
				}
				inputs = append(inputs, in)
			}

			snapshot, err := tournaments.GenerateBracket(req.Context(), tournamentID, inputs, format)
			if err != nil {
				httputil.EngineError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, snapshot)
		})

		r.Get("/bracket", func(w http.ResponseWriter, req *http.Request) {
			tournamentID, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}

			snapshot, err := tournaments.GetBracket(req.Context(), tournamentID)
			if err != nil {
				httputil.EngineError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, snapshot)
		})

		r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
			tournamentID, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}

			if err := tournaments.ArchiveTournament(req.Context(), tournamentID); err != nil {
				httputil.EngineError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				tournamentID, matchID, ok := parseIDs(w, req)
				if !ok {
					return
				}

				match, err := matches.GetMatch(req.Context(), tournamentID, matchID)
				if err != nil {
					httputil.EngineError(w, err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, match)
			})

			r.Post("/result", func(w http.ResponseWriter, req *http.Request) {
				tournamentID, matchID, ok := parseIDs(w, req)
				if !ok {
					return
				}

				var body submitResultRequest
				if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				submitterID, err := uuid.Parse(body.SubmitterID)
				if err != nil {
					httputil.BadRequest(w, "Invalid submitter ID", err)
					return
				}
				winnerID, err := uuid.Parse(body.WinnerID)
				if err != nil {
					httputil.BadRequest(w, "Invalid winner ID", err)
					return
				}

				match, err := matches.SubmitMatchResult(req.Context(), tournamentID, matchID, service.ResultInput{
					SubmitterID: submitterID,
					WinnerID:    winnerID,
					Score1:      body.Score1,
					Score2:      body.Score2,
					Proof:       utils.StringOrNil(body.Proof),
				})
				if err != nil {
					httputil.EngineError(w, err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, match)
			})

			r.Post("/force", func(w http.ResponseWriter, req *http.Request) {
				tournamentID, matchID, ok := parseIDs(w, req)
				if !ok {
					return
				}

				var body forceResultRequest
				if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				winnerID, err := uuid.Parse(body.WinnerID)
				if err != nil {
					httputil.BadRequest(w, "Invalid winner ID", err)
					return
				}

				match, err := matches.ForceMatchResult(req.Context(), tournamentID, matchID, winnerID, body.Score1, body.Score2)
				if err != nil {
					httputil.EngineError(w, err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, match)
			})
		})
	})

	return r
}

func parseIDs(w http.ResponseWriter, req *http.Request) (tournamentID, matchID uuid.UUID, ok bool) {
	tournamentID, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid tournament ID", err)
		return uuid.Nil, uuid.Nil, false
	}
	matchID, err = uuid.Parse(chi.URLParam(req, "matchID"))
	if err != nil {
		httputil.BadRequest(w, "Invalid match ID", err)
		return uuid.Nil, uuid.Nil, false
	}
	return tournamentID, matchID, true
}
