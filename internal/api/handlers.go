package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sportsfest/livescore/internal/domain"
	"github.com/sportsfest/livescore/internal/engine"
	"github.com/sportsfest/livescore/internal/storage"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps a rule-engine validation error to an HTTP response,
// preserving the machine-readable kind for scoring clients.
func writeEngineError(w http.ResponseWriter, err error) {
	kind := engine.ErrorKind(err)
	if kind == "" {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusConflict
	switch kind {
	case engine.KindMatchNotFound, engine.KindFoulNotFound:
		status = http.StatusNotFound
	case engine.KindInvalidAction:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

// parseID parses a numeric ID from the URL path
func parseID(req *http.Request, param string) (int64, error) {
	idStr := req.PathValue(param)
	return strconv.ParseInt(idStr, 10, 64)
}

// handleListMatches returns matches, optionally filtered by status and sport
func (r *Router) handleListMatches(w http.ResponseWriter, req *http.Request) {
	filter := storage.MatchFilter{
		Limit: parseLimit(req, 0, 200),
	}

	if status := req.URL.Query().Get("status"); status != "" {
		if !validateStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = status
	}

	if sport := req.URL.Query().Get("sport"); sport != "" {
		if !validateSport(sport) {
			writeError(w, http.StatusBadRequest, "invalid sport")
			return
		}
		filter.Sport = sport
	}

	matches, err := r.store.ListMatches(req.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []*domain.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleGetMatch returns a single match document
func (r *Router) handleGetMatch(w http.ResponseWriter, req *http.Request) {
	match, err := r.store.GetMatch(req.Context(), req.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// CreateMatchRequest is the request body for creating a match
type CreateMatchRequest struct {
	Sport       string     `json:"sport"`
	TeamA       string     `json:"team_a"`
	TeamB       string     `json:"team_b"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	Category    string     `json:"category,omitempty"`
}

// handleCreateMatch registers a new fixture
func (r *Router) handleCreateMatch(w http.ResponseWriter, req *http.Request) {
	var body CreateMatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validateSport(body.Sport) {
		writeError(w, http.StatusBadRequest, "invalid sport")
		return
	}
	if body.TeamA == "" || body.TeamB == "" {
		writeError(w, http.StatusBadRequest, "team_a and team_b are required")
		return
	}
	if body.Category != "" && !validateCategory(body.Category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	m := &domain.Match{
		Sport:    domain.Sport(body.Sport),
		TeamA:    body.TeamA,
		TeamB:    body.TeamB,
		Venue:    body.Venue,
		Category: body.Category,
	}
	if body.ScheduledAt != nil {
		m.ScheduledAt = *body.ScheduledAt
	}

	if err := r.coord.CreateMatch(req.Context(), m); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleDeleteMatch removes a match
func (r *Router) handleDeleteMatch(w http.ResponseWriter, req *http.Request) {
	if err := r.coord.DeleteMatch(req.Context(), req.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "match deleted"})
}

// handleMatchAction applies one scoring action to a live match
func (r *Router) handleMatchAction(w http.ResponseWriter, req *http.Request) {
	var action domain.Action
	if err := json.NewDecoder(req.Body).Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if action.Kind == "" {
		writeError(w, http.StatusBadRequest, "action kind is required")
		return
	}

	match, err := r.coord.HandleUpdate(req.Context(), req.PathValue("id"), action)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// StatusRequest is the request body for a lifecycle transition
type StatusRequest struct {
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"` // side "A" or "B", COMPLETED only
}

// handleMatchStatus transitions a match between lifecycle states
func (r *Router) handleMatchStatus(w http.ResponseWriter, req *http.Request) {
	var body StatusRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var match *domain.Match
	var err error
	switch body.Status {
	case domain.StatusLive:
		match, err = r.coord.Start(req.Context(), req.PathValue("id"))
	case domain.StatusCompleted:
		match, err = r.coord.Complete(req.Context(), req.PathValue("id"), domain.TeamSide(body.Winner))
	default:
		writeError(w, http.StatusBadRequest, "status must be LIVE or COMPLETED")
		return
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// handleGetFouls returns the disciplinary ledger for a match
func (r *Router) handleGetFouls(w http.ResponseWriter, req *http.Request) {
	match, err := r.store.GetMatch(req.Context(), req.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	fouls := match.Fouls
	if fouls == nil {
		fouls = []domain.FoulRecord{}
	}
	writeJSON(w, http.StatusOK, fouls)
}

// AddFoulRequest is the request body for recording a foul
type AddFoulRequest struct {
	Team          string `json:"team"`
	PlayerName    string `json:"player_name"`
	FoulType      string `json:"foul_type"`
	JerseyNumber  string `json:"jersey_number,omitempty"`
	GameTime      int    `json:"game_time,omitempty"`
	Consequence   string `json:"consequence,omitempty"`
	PitchLocation string `json:"pitch_location,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// handleAddFoul appends a record to the match's disciplinary ledger
func (r *Router) handleAddFoul(w http.ResponseWriter, req *http.Request) {
	var body AddFoulRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validateFoulType(body.FoulType) {
		writeError(w, http.StatusBadRequest, "invalid foul_type")
		return
	}

	rec, err := r.coord.AddFoul(req.Context(), req.PathValue("id"), domain.FoulRecord{
		Team:          domain.TeamSide(body.Team),
		PlayerName:    body.PlayerName,
		FoulType:      body.FoulType,
		JerseyNumber:  body.JerseyNumber,
		GameTime:      body.GameTime,
		Consequence:   body.Consequence,
		PitchLocation: body.PitchLocation,
		Reason:        body.Reason,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleRemoveFoul deletes a ledger record
func (r *Router) handleRemoveFoul(w http.ResponseWriter, req *http.Request) {
	err := r.coord.RemoveFoul(req.Context(), req.PathValue("id"), req.PathValue("foulId"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "foul removed"})
}

// handleGetSuspensions returns players currently suspended by card accumulation
func (r *Router) handleGetSuspensions(w http.ResponseWriter, req *http.Request) {
	suspended, err := r.coord.Suspensions(req.Context(), req.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if suspended == nil {
		suspended = []domain.SuspendedPlayer{}
	}
	writeJSON(w, http.StatusOK, suspended)
}

// handleListDepartments returns all departments
func (r *Router) handleListDepartments(w http.ResponseWriter, req *http.Request) {
	departments, err := r.store.ListDepartments(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	writeJSON(w, http.StatusOK, departments)
}

// handleGetDepartment returns a single department
func (r *Router) handleGetDepartment(w http.ResponseWriter, req *http.Request) {
	dept, err := r.store.GetDepartment(req.Context(), req.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dept == nil {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

// DepartmentRequest is the request body for creating or updating a department
type DepartmentRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// handleCreateDepartment registers a competing department
func (r *Router) handleCreateDepartment(w http.ResponseWriter, req *http.Request) {
	var body DepartmentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	dept := &domain.Department{
		ID:    uuid.NewString(),
		Name:  body.Name,
		Color: body.Color,
	}
	if err := r.store.CreateDepartment(req.Context(), dept); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			writeError(w, http.StatusConflict, "department name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, dept)
}

// handleUpdateDepartment updates a department's name or color
func (r *Router) handleUpdateDepartment(w http.ResponseWriter, req *http.Request) {
	dept, err := r.store.GetDepartment(req.Context(), req.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dept == nil {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}

	var body DepartmentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name != "" {
		dept.Name = body.Name
	}
	if body.Color != "" {
		dept.Color = body.Color
	}

	if err := r.store.UpdateDepartment(req.Context(), dept); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

// handleDeleteDepartment removes a department
func (r *Router) handleDeleteDepartment(w http.ResponseWriter, req *http.Request) {
	if err := r.store.DeleteDepartment(req.Context(), req.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "department deleted"})
}

// handleHealth returns a simple health check response
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
