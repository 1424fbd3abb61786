package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/httputil"
	"github.com/AdamBeresnev/knockout/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

type application struct {
	tournaments *service.TournamentService
	teams       *service.TeamService
	brackets    *service.BracketService
	matches     *service.MatchService
}

type message struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func newRouter(app *application, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", app.listTournaments)
		r.Post("/", app.createTournament)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.getTournament)
			r.Patch("/status", app.updateTournamentStatus)
			r.Get("/teams", app.listTeams)
			r.Post("/teams", app.addTeams)
			r.Patch("/standings", app.updateStandings)
			r.Get("/bracket", app.getBracket)
			r.Post("/bracket", app.generateBracket)
			r.Get("/matches", app.listMatches)
		})
	})

	r.Route("/teams/{id}", func(r chi.Router) {
		r.Get("/", app.getTeam)
		r.Patch("/", app.updateTeam)
		r.Get("/stats", app.teamStats)
	})

	r.Route("/matches/{id}", func(r chi.Router) {
		r.Get("/", app.getMatch)
		r.Patch("/winner", app.markWinner)
		r.Patch("/edit-winner", app.editWinner)
	})

	return r
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func respond(w http.ResponseWriter, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		httputil.InternalServerError(w, "Failed to write response", err)
	}
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to list tournaments", err)
		return
	}
	respond(w, http.StatusOK, tournaments)
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var input service.TournamentInput
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	id, err := app.tournaments.CreateTournament(r.Context(), input)
	if err != nil {
		httputil.Error(w, "Failed to create tournament", err)
		return
	}
	respond(w, http.StatusCreated, message{Message: "Tournament created", Data: map[string]uuid.UUID{"id": id}})
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get tournament", err)
		return
	}
	respond(w, http.StatusOK, data)
}

func (app *application) updateTournamentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input struct {
		Status bracket.TournamentStatus `json:"status"`
	}
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	tournament, err := app.tournaments.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		httputil.Error(w, "Failed to update tournament status", err)
		return
	}
	respond(w, http.StatusOK, message{Message: "Tournament status updated", Data: tournament})
}

func (app *application) listTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	standing := bracket.Standing(r.URL.Query().Get("standing"))
	teams, err := app.teams.ListTeams(r.Context(), id, standing)
	if err != nil {
		httputil.Error(w, "Failed to list teams", err)
		return
	}
	respond(w, http.StatusOK, teams)
}

func (app *application) updateStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input struct {
		Updates []service.StandingUpdate `json:"updates"`
	}
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	teams, err := app.teams.UpdateStandings(r.Context(), id, input.Updates)
	if err != nil {
		httputil.Error(w, "Failed to update standings", err)
		return
	}
	respond(w, http.StatusOK, message{Message: fmt.Sprintf("%d standing(s) updated", len(teams)), Data: teams})
}

func (app *application) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	team, err := app.teams.GetTeam(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get team", err)
		return
	}
	respond(w, http.StatusOK, team)
}

func (app *application) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input service.TeamUpdate
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	team, err := app.teams.UpdateTeam(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, "Failed to update team", err)
		return
	}
	respond(w, http.StatusOK, message{Message: "Team updated successfully", Data: team})
}

func (app *application) teamStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	stats, err := app.teams.TeamStats(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get team statistics", err)
		return
	}
	respond(w, http.StatusOK, stats)
}

func (app *application) addTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input struct {
		Teams []service.TeamInput `json:"teams"`
	}
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	teams, err := app.tournaments.AddTeams(r.Context(), id, input.Teams)
	if err != nil {
		httputil.Error(w, "Failed to add teams", err)
		return
	}
	respond(w, http.StatusCreated, message{Message: fmt.Sprintf("%d team(s) added", len(teams)), Data: teams})
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := app.brackets.GenerateBracket(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to generate bracket", err)
		return
	}
	respond(w, http.StatusCreated, message{Message: "Bracket generated successfully", Data: result})
}

func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	b, err := app.brackets.GetBracket(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get bracket", err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (app *application) listMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	round := 0
	if raw := r.URL.Query().Get("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "round must be a positive integer", err)
			return
		}
		round = n
	}

	rounds, err := app.matches.ListMatches(r.Context(), id, round)
	if err != nil {
		httputil.Error(w, "Failed to list matches", err)
		return
	}
	respond(w, http.StatusOK, rounds)
}

func (app *application) getMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	match, err := app.matches.GetMatch(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get match", err)
		return
	}
	respond(w, http.StatusOK, match)
}

func (app *application) markWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input struct {
		WinnerTeamID uuid.UUID `json:"winnerTeamId"`
	}
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}
	if input.WinnerTeamID == uuid.Nil {
		httputil.BadRequest(w, "winnerTeamId is required", nil)
		return
	}

	result, err := app.matches.MarkWinner(r.Context(), id, input.WinnerTeamID)
	if err != nil {
		httputil.Error(w, "Failed to mark winner", err)
		return
	}

	msg := "Winner marked successfully"
	switch {
	case result.Champion != nil:
		msg = "Winner marked! Tournament complete."
	case result.RoundComplete:
		msg = fmt.Sprintf("Winner marked! Round %d complete. Round %d ready.", result.Match.Round, *result.NextRound)
	}
	respond(w, http.StatusOK, message{Message: msg, Data: result})
}

func (app *application) editWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var input struct {
		NewWinnerTeamID uuid.UUID `json:"newWinnerTeamId"`
	}
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}
	if input.NewWinnerTeamID == uuid.Nil {
		httputil.BadRequest(w, "newWinnerTeamId is required", nil)
		return
	}

	result, err := app.matches.EditWinner(r.Context(), id, input.NewWinnerTeamID)
	if err != nil {
		httputil.Error(w, "Failed to edit winner", err)
		return
	}
	msg := fmt.Sprintf("Winner changed from %s to %s", result.PreviousWinnerID, input.NewWinnerTeamID)
	respond(w, http.StatusOK, message{Message: msg, Data: result})
}
