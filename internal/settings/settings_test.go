package settings

import (
	"context"
	"testing"
)

type mapReader map[string]string

func (m mapReader) All(_ context.Context) (map[string]string, error) {
	return m, nil
}

func TestLoadOverlaysStoredOptions(t *testing.T) {
	base := Defaults()
	base.APIKey = "env-key"

	got, err := Load(context.Background(), mapReader{
		OptionAPIKey:          "stored-key",
		OptionImageModel:      "dall-e-2",
		OptionRenameUploads:   "false",
		OptionGenerateAltText: "true",
	}, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.APIKey != "stored-key" {
		t.Fatalf("api key = %q", got.APIKey)
	}
	if got.ImageModel != "dall-e-2" {
		t.Fatalf("image model = %q", got.ImageModel)
	}
	if got.RenameUploads {
		t.Fatal("rename_uploads should be disabled")
	}
	if !got.GenerateAltText {
		t.Fatal("generate_alt_text should stay enabled")
	}
	// Untouched fields keep defaults.
	if got.ImageQuality != "standard" || got.ImageSize != "1024x1024" {
		t.Fatalf("defaults lost: %+v", got)
	}
}

func TestLoadKeepsBaseWhenStoreEmpty(t *testing.T) {
	base := Defaults()
	base.APIKey = "env-key"
	got, err := Load(context.Background(), mapReader{}, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != base {
		t.Fatalf("expected base settings back, got %+v", got)
	}
}

func TestLoadIgnoresMalformedBooleans(t *testing.T) {
	got, err := Load(context.Background(), mapReader{OptionEnableImageGen: "banana"}, Defaults())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.EnableImageGen {
		t.Fatal("malformed boolean should keep the default")
	}
}
