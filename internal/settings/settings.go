package settings

import (
	"context"
	"strconv"
)

// Option names in the options store.
const (
	OptionAPIKey          = "openai_api_key"
	OptionVisionModel     = "vision_model"
	OptionImageModel      = "image_model"
	OptionImageQuality    = "image_quality"
	OptionImageSize       = "image_size"
	OptionRenameUploads   = "rename_uploads"
	OptionGenerateAltText = "generate_alt_text"
	OptionEnableImageGen  = "enable_image_generation"
)

// Reader is the subset of the options store the settings loader needs.
type Reader interface {
	All(ctx context.Context) (map[string]string, error)
}

// Settings is the admin-facing configuration of the media assistant.
// It is constructed explicitly and passed by reference; the job core
// treats it as read-only.
type Settings struct {
	APIKey          string
	VisionModel     string
	ImageModel      string
	ImageQuality    string
	ImageSize       string
	RenameUploads   bool
	GenerateAltText bool
	EnableImageGen  bool
}

// Defaults returns the settings used when the options store is empty.
func Defaults() Settings {
	return Settings{
		VisionModel:     "gpt-4o-mini",
		ImageModel:      "dall-e-3",
		ImageQuality:    "standard",
		ImageSize:       "1024x1024",
		RenameUploads:   true,
		GenerateAltText: true,
		EnableImageGen:  true,
	}
}

// Load overlays stored options on top of base.
func Load(ctx context.Context, r Reader, base Settings) (Settings, error) {
	opts, err := r.All(ctx)
	if err != nil {
		return base, err
	}
	s := base
	if v, ok := opts[OptionAPIKey]; ok && v != "" {
		s.APIKey = v
	}
	if v, ok := opts[OptionVisionModel]; ok && v != "" {
		s.VisionModel = v
	}
	if v, ok := opts[OptionImageModel]; ok && v != "" {
		s.ImageModel = v
	}
	if v, ok := opts[OptionImageQuality]; ok && v != "" {
		s.ImageQuality = v
	}
	if v, ok := opts[OptionImageSize]; ok && v != "" {
		s.ImageSize = v
	}
	if v, ok := opts[OptionRenameUploads]; ok {
		s.RenameUploads = parseBool(v, s.RenameUploads)
	}
	if v, ok := opts[OptionGenerateAltText]; ok {
		s.GenerateAltText = parseBool(v, s.GenerateAltText)
	}
	if v, ok := opts[OptionEnableImageGen]; ok {
		s.EnableImageGen = parseBool(v, s.EnableImageGen)
	}
	return s, nil
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
