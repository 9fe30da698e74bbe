package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"mediagen/internal/media"
)

// FilenameSuggestion asks the vision model for a descriptive filename
// for a stored image. The original file's extension is appended when
// the suggestion omits it.
func (a *App) FilenameSuggestion(w http.ResponseWriter, r *http.Request) {
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
	if isImage, err := media.IsImage(path); err != nil || !isImage {
		a.error(w, http.StatusBadRequest, "attachment is not an image")
		return
	}

	resized, cleanup, err := media.ResizeForVision(path)
	if err != nil {
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cleanup()

	name, err := a.Vision.SuggestFilename(r.Context(), resized)
	if err != nil {
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" && !strings.Contains(name, ext) {
		name += "." + ext
	}

	a.json(w, http.StatusOK, map[string]string{"filename": name})
}
