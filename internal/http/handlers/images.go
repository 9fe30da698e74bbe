package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediagen/internal/domain"
	"mediagen/internal/jobs"
)

type generateImageRequest struct {
	Prompt      *string `json:"prompt"`
	PostTitle   *string `json:"postTitle"`
	PostContent *string `json:"postContent"`
}

// GenerateImage accepts an image generation request and answers with a
// job id before the image exists. Clients poll ImageJobStatus.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Prompt == nil || req.PostTitle == nil || req.PostContent == nil {
		a.error(w, http.StatusBadRequest, "prompt, postTitle and postContent are required")
		return
	}

	s := a.loadSettings(r.Context())
	jobID, err := a.Jobs.Submit(r.Context(), s, jobs.SubmitRequest{
		Prompt:      *req.Prompt,
		PostTitle:   *req.PostTitle,
		PostContent: *req.PostContent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingAPIKey) {
			a.error(w, http.StatusNotFound, "OpenAI API key not found")
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: submit failed")
		a.error(w, http.StatusInternalServerError, "failed to queue job")
		return
	}

	a.json(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// ImageJobStatus reports the current state of a generation job. An
// unknown id and an expired one are indistinguishable on purpose.
func (a *App) ImageJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	state, err := a.Jobs.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "Job not found or expired")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: status lookup failed")
		a.error(w, http.StatusInternalServerError, "failed to load job")
		return
	}

	a.json(w, http.StatusOK, state)
}
