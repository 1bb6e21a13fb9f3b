package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"dailydose/core"
	"dailydose/models"
	"dailydose/scheduler"
	"dailydose/usecases/standups"
)

// StandupsUseCase is the command surface exposed over HTTP
type StandupsUseCase interface {
	GetEligibleMembers(ctx context.Context, teamID string, date time.Time) ([]*models.TeamMember, error)
	SaveResponse(
		ctx context.Context,
		teamID, userID string,
		date time.Time,
		payload models.ResponsePayload,
	) (*models.StoredResponse, error)
	PostTeamStandup(ctx context.Context, teamID string, date time.Time) (*models.StandupPost, error)
	SendStandupReminders(ctx context.Context, teamID string) (models.DispatchResult, error)
	SendFollowupReminders(ctx context.Context, teamID string) (models.DispatchResult, error)
	GetTeamDayStatus(ctx context.Context, teamID string, date time.Time) (*standups.TeamDayReport, error)
}

// TeamScheduler is the scheduling surface exposed over HTTP
type TeamScheduler interface {
	ScheduleAll(ctx context.Context) (*scheduler.ScheduleResult, error)
	RescheduleTeam(ctx context.Context, teamID string) error
}

type StandupsHTTPHandler struct {
	usecase   StandupsUseCase
	scheduler TeamScheduler
}

func NewStandupsHTTPHandler(usecase StandupsUseCase, scheduler TeamScheduler) *StandupsHTTPHandler {
	return &StandupsHTTPHandler{
		usecase:   usecase,
		scheduler: scheduler,
	}
}

type SaveResponseRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

type EligibleMemberResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type PostResponse struct {
	Posted bool                `json:"posted"`
	Post   *models.StandupPost `json:"post,omitempty"`
}

func (h *StandupsHTTPHandler) HandleGetEligibleMembers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}
	date, ok := h.dateFromQuery(w, r)
	if !ok {
		return
	}

	members, err := h.usecase.GetEligibleMembers(r.Context(), teamID, date)
	if err != nil {
		h.writeError(w, "get eligible members", err)
		return
	}

	result := make([]EligibleMemberResponse, 0, len(members))
	for _, member := range members {
		result = append(result, EligibleMemberResponse{
			UserID:      member.User.ID,
			DisplayName: member.User.DisplayName,
			Role:        string(member.Membership.Role),
		})
	}
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *StandupsHTTPHandler) HandleSaveResponse(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}

	var req SaveResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode response request: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !core.IsValidULID(req.UserID) {
		http.Error(w, "user_id must be a valid ULID", http.StatusBadRequest)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	payload := models.ResponsePayload{Yesterday: req.Yesterday, Today: req.Today, Blockers: req.Blockers}
	if strings.TrimSpace(payload.Yesterday+payload.Today+payload.Blockers) == "" {
		http.Error(w, "at least one of yesterday, today or blockers is required", http.StatusBadRequest)
		return
	}

	stored, err := h.usecase.SaveResponse(r.Context(), teamID, req.UserID, date, payload)
	if err != nil {
		h.writeError(w, "save response", err)
		return
	}

	status := http.StatusOK
	if stored.Status == models.ResponseSaveStatusCreated {
		status = http.StatusCreated
	}
	h.writeJSONResponse(w, status, stored)
}

func (h *StandupsHTTPHandler) HandlePostStandup(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}
	date, ok := h.dateFromQuery(w, r)
	if !ok {
		return
	}

	post, err := h.usecase.PostTeamStandup(r.Context(), teamID, date)
	if err != nil {
		h.writeError(w, "post standup", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, PostResponse{Posted: post != nil, Post: post})
}

func (h *StandupsHTTPHandler) HandleSendReminders(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.usecase.SendStandupReminders(r.Context(), teamID)
	if err != nil {
		h.writeError(w, "send reminders", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *StandupsHTTPHandler) HandleSendFollowups(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.usecase.SendFollowupReminders(r.Context(), teamID)
	if err != nil {
		h.writeError(w, "send follow-ups", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *StandupsHTTPHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}
	date, ok := h.dateFromQuery(w, r)
	if !ok {
		return
	}

	report, err := h.usecase.GetTeamDayStatus(r.Context(), teamID, date)
	if err != nil {
		h.writeError(w, "get team-day status", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, report)
}

func (h *StandupsHTTPHandler) HandleScheduleAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.ScheduleAll(r.Context())
	if err != nil {
		h.writeError(w, "schedule teams", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *StandupsHTTPHandler) HandleScheduleTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.scheduler.RescheduleTeam(r.Context(), teamID); err != nil {
		h.writeError(w, "schedule team", err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, map[string]string{
		"message": "team scheduled successfully",
	})
}

func (h *StandupsHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StandupsHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering standup API endpoints")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/schedule", h.HandleScheduleAll).Methods("POST")
	log.Printf("✅ POST /api/schedule endpoint registered")

	api.HandleFunc("/teams/{teamID}/schedule", h.HandleScheduleTeam).Methods("POST")
	log.Printf("✅ POST /api/teams/{teamID}/schedule endpoint registered")

	api.HandleFunc("/teams/{teamID}/eligible", h.HandleGetEligibleMembers).Methods("GET")
	log.Printf("✅ GET /api/teams/{teamID}/eligible endpoint registered")

	api.HandleFunc("/teams/{teamID}/responses", h.HandleSaveResponse).Methods("POST")
	log.Printf("✅ POST /api/teams/{teamID}/responses endpoint registered")

	api.HandleFunc("/teams/{teamID}/post", h.HandlePostStandup).Methods("POST")
	log.Printf("✅ POST /api/teams/{teamID}/post endpoint registered")

	api.HandleFunc("/teams/{teamID}/reminders", h.HandleSendReminders).Methods("POST")
	log.Printf("✅ POST /api/teams/{teamID}/reminders endpoint registered")

	api.HandleFunc("/teams/{teamID}/followups", h.HandleSendFollowups).Methods("POST")
	log.Printf("✅ POST /api/teams/{teamID}/followups endpoint registered")

	api.HandleFunc("/teams/{teamID}/status", h.HandleGetStatus).Methods("GET")
	log.Printf("✅ GET /api/teams/{teamID}/status endpoint registered")

	log.Printf("✅ All standup API endpoints registered successfully")
}

func (h *StandupsHTTPHandler) teamIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	teamID := mux.Vars(r)["teamID"]
	if !core.IsValidULID(teamID) {
		http.Error(w, "team ID must be a valid ULID", http.StatusBadRequest)
		return "", false
	}
	return teamID, true
}

func (h *StandupsHTTPHandler) dateFromQuery(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := core.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "date query parameter must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func (h *StandupsHTTPHandler) writeError(w http.ResponseWriter, operation string, err error) {
	switch {
	case core.IsConfigError(err):
		log.Printf("⚠️ Failed to %s: %v", operation, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case core.IsNotFoundError(err):
		log.Printf("⚠️ Failed to %s: %v", operation, err)
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Printf("❌ Failed to %s: %v", operation, err)
		http.Error(w, "failed to "+operation, http.StatusInternalServerError)
	}
}

func (h *StandupsHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
