package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mediagen/internal/settings"
)

type settingsResponse struct {
	HasAPIKey       bool   `json:"has_api_key"`
	VisionModel     string `json:"vision_model"`
	ImageModel      string `json:"image_model"`
	ImageQuality    string `json:"image_quality"`
	ImageSize       string `json:"image_size"`
	RenameUploads   bool   `json:"rename_uploads"`
	GenerateAltText bool   `json:"generate_alt_text"`
	EnableImageGen  bool   `json:"enable_image_generation"`
}

type settingsUpdateRequest struct {
	APIKey          *string `json:"api_key"`
	VisionModel     *string `json:"vision_model"`
	ImageModel      *string `json:"image_model"`
	ImageQuality    *string `json:"image_quality"`
	ImageSize       *string `json:"image_size"`
	RenameUploads   *bool   `json:"rename_uploads"`
	GenerateAltText *bool   `json:"generate_alt_text"`
	EnableImageGen  *bool   `json:"enable_image_generation"`
}

// GetSettings returns the effective configuration. The credential is
// never echoed back, only its presence.
func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	s := a.loadSettings(r.Context())
	a.json(w, http.StatusOK, settingsResponse{
		HasAPIKey:       s.APIKey != "",
		VisionModel:     s.VisionModel,
		ImageModel:      s.ImageModel,
		ImageQuality:    s.ImageQuality,
		ImageSize:       s.ImageSize,
		RenameUploads:   s.RenameUploads,
		GenerateAltText: s.GenerateAltText,
		EnableImageGen:  s.EnableImageGen,
	})
}

// UpdateSettings persists the provided fields to the options store.
// Absent fields are left untouched.
func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	updates := map[string]string{}
	if req.APIKey != nil {
		updates[settings.OptionAPIKey] = *req.APIKey
	}
	if req.VisionModel != nil {
		updates[settings.OptionVisionModel] = *req.VisionModel
	}
	if req.ImageModel != nil {
		updates[settings.OptionImageModel] = *req.ImageModel
	}
	if req.ImageQuality != nil {
		updates[settings.OptionImageQuality] = *req.ImageQuality
	}
	if req.ImageSize != nil {
		updates[settings.OptionImageSize] = *req.ImageSize
	}
	if req.RenameUploads != nil {
		updates[settings.OptionRenameUploads] = strconv.FormatBool(*req.RenameUploads)
	}
	if req.GenerateAltText != nil {
		updates[settings.OptionGenerateAltText] = strconv.FormatBool(*req.GenerateAltText)
	}
	if req.EnableImageGen != nil {
		updates[settings.OptionEnableImageGen] = strconv.FormatBool(*req.EnableImageGen)
	}

	for name, value := range updates {
		if err := a.Options.Set(r.Context(), name, value); err != nil {
			a.Logger.Error().Err(err).Str("option", name).Msg("handlers: option write failed")
			a.error(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	a.GetSettings(w, r)
}
