package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"mediagen/internal/domain"
	"mediagen/internal/jobs"
	"mediagen/internal/settings"
	"mediagen/internal/storage"
)

// OptionStore is the options KV surface the settings endpoints need.
type OptionStore interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, name, value string) error
}

// AttachmentStore resolves stored attachments for the suggestion flows.
type AttachmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Attachment, error)
}

// Vision produces filename and alt text suggestions for a local image.
type Vision interface {
	SuggestFilename(ctx context.Context, path string) (string, error)
	SuggestAltText(ctx context.Context, path string) (string, error)
}

type App struct {
	Jobs        *jobs.Orchestrator
	Options     OptionStore
	Attachments AttachmentStore
	Files       *storage.FileStore
	Vision      Vision
	Base        settings.Settings
	Logger      zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// loadSettings overlays stored options on the process defaults. A
// failing options store degrades to the defaults rather than taking
// the endpoint down.
func (a *App) loadSettings(ctx context.Context) *settings.Settings {
	s, err := settings.Load(ctx, a.Options, a.Base)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("handlers: options load failed, using defaults")
	}
	return &s
}
