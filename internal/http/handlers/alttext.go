package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"mediagen/internal/domain"
	"mediagen/internal/media"
)

type mediaRequest struct {
	MediaID int64 `json:"mediaId"`
}

// AltTextGenerator describes a stored image for screen readers.
func (a *App) AltTextGenerator(w http.ResponseWriter, r *http.Request) {
	var req mediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MediaID <= 0 {
		a.error(w, http.StatusBadRequest, "mediaId is required")
		return
	}

	s := a.loadSettings(r.Context())
	if s.APIKey == "" {
		a.error(w, http.StatusNotFound, "OpenAI API key not found")
		return
	}

	path, ok := a.resolveImagePath(r.Context(), w, req.MediaID)
	if !ok {
		return
	}

	resized, cleanup, err := media.ResizeForVision(path)
	if err != nil {
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cleanup()

	text, err := a.Vision.SuggestAltText(r.Context(), resized)
	if err != nil {
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.json(w, http.StatusOK, map[string]string{"alt_text": text})
}

// resolveImagePath maps an attachment id to a readable image file on
// disk, writing the 404 itself when the attachment or its file is gone.
func (a *App) resolveImagePath(ctx context.Context, w http.ResponseWriter, mediaID int64) (string, bool) {
	att, err := a.Attachments.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "Attachment file not found.")
			return "", false
		}
		a.Logger.Error().Err(err).Int64("media_id", mediaID).Msg("handlers: attachment lookup failed")
		a.error(w, http.StatusInternalServerError, "failed to load attachment")
		return "", false
	}

	path, err := a.Files.Path(att.FileKey)
	if err != nil {
		a.error(w, http.StatusNotFound, "Attachment file not found.")
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		a.error(w, http.StatusNotFound, "Attachment file not found.")
		return "", false
	}
	return path, true
}
