package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// Image generation is slow; the vendor call gets its own window.
	generateTimeout = 2 * time.Minute

	defaultVisionTimeout = 15 * time.Second
)

const (
	filenamePrompt = "What would a good, short, dash separated filename be for this image? " +
		`Reply with JSON of the form {"filename": "..."}.`
	altTextPrompt = "Please provide the alt text for this image, ensuring it describes the content " +
		"comprehensively for individuals who cannot see it. " +
		`Reply with JSON of the form {"alt_text": "..."}.`
)

type Options struct {
	APIKey        string
	BaseURL       string
	VisionModel   string
	VisionTimeout time.Duration
	HTTPClient    *http.Client
}

// Client wraps the two OpenAI surfaces this service needs: the
// text-to-image endpoint and the vision-capable chat endpoint.
type Client struct {
	apiKey        string
	baseURL       string
	visionModel   string
	visionTimeout time.Duration
	client        *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.VisionModel)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := opts.VisionTimeout
	if timeout <= 0 {
		timeout = defaultVisionTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		apiKey:        strings.TrimSpace(opts.APIKey),
		baseURL:       baseURL,
		visionModel:   model,
		visionTimeout: timeout,
		client:        client,
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage submits the composed prompt to the image model and
// returns the raw image bytes. Vendor error messages are returned
// verbatim so the job record can surface them unchanged.
func (c *Client) GenerateImage(ctx context.Context, prompt ImagePrompt, model, quality, size string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("openai: api key is missing")
	}
	payload := imageRequest{
		Model:          model,
		Prompt:         ComposePrompt(prompt, model),
		N:              1,
		Size:           size,
		Quality:        quality,
		ResponseFormat: "b64_json",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("openai: http %d", resp.StatusCode)
		}
		return nil, err
	}
	if out.Error != nil && out.Error.Message != "" {
		return nil, errors.New(out.Error.Message)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("openai: http %d", resp.StatusCode)
	}
	if len(out.Data) == 0 {
		return nil, errors.New("openai: empty image response")
	}
	if b64 := out.Data[0].B64JSON; b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decode image data: %w", err)
		}
		return data, nil
	}
	if url := out.Data[0].URL; url != "" {
		return c.download(ctx, url)
	}
	return nil, errors.New("openai: image payload missing url and b64_json")
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: fetch image url: http %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SuggestFilename asks the vision model for a short dash-separated
// filename for the image at path (local file or URL).
func (c *Client) SuggestFilename(ctx context.Context, path string) (string, error) {
	return c.visionRequest(ctx, path, filenamePrompt, "filename")
}

// SuggestAltText asks the vision model for accessibility alt text.
func (c *Client) SuggestAltText(ctx context.Context, path string) (string, error) {
	text, err := c.visionRequest(ctx, path, altTextPrompt, "alt_text")
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(text, "Alt text: "), nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) visionRequest(ctx context.Context, path, instruction, field string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("openai: api key is missing")
	}
	imageURL, err := resolveImageURL(path)
	if err != nil {
		return "", err
	}
	payload := chatRequest{
		Model:          c.visionModel,
		ResponseFormat: &chatFormat{Type: "json_object"},
		Messages: []chatMessage{{
			Role: "user",
			Content: []any{
				map[string]string{"type": "text", "text": instruction},
				map[string]any{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.visionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("openai: http %d", resp.StatusCode)
		}
		return "", err
	}
	if out.Error != nil && out.Error.Message != "" {
		return "", errors.New(out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(out.Choices) == 0 {
		return "", errors.New("unable to get response from OpenAI")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty response")
	}
	return extractField(text, field), nil
}

// extractField pulls the named key from a JSON reply. If the model did
// not honor the schema, the raw text is treated as the answer.
func extractField(text, field string) string {
	var parsed map[string]string
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if v := strings.TrimSpace(parsed[field]); v != "" {
			return v
		}
	}
	return text
}

// resolveImageURL accepts a remote URL as-is and converts a local file
// into a data URL for the vision endpoint.
func resolveImageURL(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.New("file is not an image")
	}
	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
