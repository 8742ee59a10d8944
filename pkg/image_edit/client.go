package image_edit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrEditorDisabled = errors.New("image editing is disabled")

// Editor is the opaque image editing collaborator. It returns the edited image or an
// error; callers never inspect the error beyond logging it.
type Editor interface {
	Edit(ctx context.Context, image []byte, mimeType string, prompt string) ([]byte, string, error)
}

// DisabledEditor is used when no editing backend is configured.
type DisabledEditor struct{}

func (DisabledEditor) Edit(ctx context.Context, image []byte, mimeType string, prompt string) ([]byte, string, error) {
	return nil, "", ErrEditorDisabled
}

type editPayload struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
	Prompt   string `json:"prompt,omitempty"`
}

// HttpEditor sends the image to an HTTP endpoint accepting and returning base64
// encoded images as JSON.
type HttpEditor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHttpEditor(endpoint string, apiKey string, timeout time.Duration) *HttpEditor {
	return &HttpEditor{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *HttpEditor) Edit(ctx context.Context, image []byte, mimeType string, prompt string) ([]byte, string, error) {
	body, err := json.Marshal(editPayload{
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: mimeType,
		Prompt:   prompt,
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("image editor returned %d: %s", resp.StatusCode, string(responseBody))
	}

	var result editPayload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, "", err
	}
	if result.Image == "" {
		return nil, "", errors.New("image editor returned no image")
	}
	edited, err := base64.StdEncoding.DecodeString(result.Image)
	if err != nil {
		return nil, "", fmt.Errorf("image editor returned invalid base64: %w", err)
	}
	if result.MimeType == "" {
		result.MimeType = mimeType
	}
	return edited, result.MimeType, nil
}
