package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/services"
	"ai-vision-backend/internal/store"
	"ai-vision-backend/pkg/httputil"
)

// HistoryHandlers handles HTTP requests for conversation history and
// user creation.
type HistoryHandlers struct {
	historyService *services.HistoryService
}

// NewHistoryHandlers creates a new HistoryHandlers instance.
func NewHistoryHandlers(historyService *services.HistoryService) *HistoryHandlers {
	return &HistoryHandlers{
		historyService: historyService,
	}
}

// HandleGetHistory handles GET /history/{userID}?limit=&offset=.
func (h *HistoryHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	page, err := h.historyService.GetHistory(r.Context(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get history: "+err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// HandleClearHistory handles DELETE /history/{userID}.
func (h *HistoryHandlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	if err := h.historyService.ClearHistory(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to clear history: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateUser handles POST /users. The body is optional; an empty
// body mints an anonymous user.
func (h *HistoryHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.historyService.CreateUser(r.Context(), req.Name)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create user: "+err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.CreateUserResponse{UserID: userID})
}

// queryInt parses an integer query parameter, returning fallback when
// the parameter is absent or malformed.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
