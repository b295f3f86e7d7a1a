package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ai-vision-backend/internal/imaging"
	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/services"
	"ai-vision-backend/pkg/httputil"
)

// AnalysisHandlers handles HTTP requests for image analysis.
type AnalysisHandlers struct {
	analysisService *services.AnalysisService
}

// NewAnalysisHandlers creates a new AnalysisHandlers instance.
func NewAnalysisHandlers(analysisService *services.AnalysisService) *AnalysisHandlers {
	return &AnalysisHandlers{
		analysisService: analysisService,
	}
}

// HandleAnalyze handles POST /analyze. It returns only the response
// text and the resolved user ID; the detailed variant exposes the rest.
func (h *AnalysisHandlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runAnalysis(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.AnalyzeResponse{
		Response: result.Response,
		UserID:   result.UserID,
	})
}

// HandleAnalyzeDetailed handles POST /analyze/detailed, returning the
// full analysis payload including the image descriptor and the IDs of
// the recorded messages.
func (h *AnalysisHandlers) HandleAnalyzeDetailed(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runAnalysis(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// runAnalysis decodes the request, runs the analysis and maps errors to
// HTTP statuses. It reports whether a result was produced; on false the
// error response has already been written.
func (h *AnalysisHandlers) runAnalysis(w http.ResponseWriter, r *http.Request) (*models.AnalysisResult, bool) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if req.Image == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing 'image' field")
		return nil, false
	}

	result, err := h.analysisService.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidImage) {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid image data or corrupted image")
			return nil, false
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Internal Server Error: "+err.Error())
		return nil, false
	}

	return result, true
}
