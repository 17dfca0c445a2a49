package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/pkg/config"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

// HTTPClient implements Classifier and TreatmentSuggester against the
// configured external endpoints.
type HTTPClient struct {
	classifierURL string
	treatmentURL  string
	apiKey        string
	httpc         *http.Client
}

// NewHTTPClient builds a client with the configured request timeout.
func NewHTTPClient(cfg config.AdvisoryConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		classifierURL: cfg.ClassifierURL,
		treatmentURL:  cfg.TreatmentURL,
		apiKey:        cfg.APIKey,
		httpc:         &http.Client{Timeout: timeout},
	}
}

// Classify posts raw image bytes and returns the ranked label list.
func (c *HTTPClient) Classify(ctx context.Context, image []byte) ([]Label, error) {
	if c.classifierURL == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "classifier endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.classifierURL, bytes.NewReader(image))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to build classifier request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("classifier call failed: %v", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("classifier returned %d: %s", resp.StatusCode, string(body)))
	}

	var out struct {
		Predictions []Label `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode classifier response")
	}

	return out.Predictions, nil
}

// Suggest posts a structured disease prompt and returns the parsed advice.
func (c *HTTPClient) Suggest(ctx context.Context, inquiry *models.Inquiry) (*Suggestion, error) {
	if c.treatmentURL == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "treatment endpoint not configured")
	}

	payload := map[string]string{
		"plant":       inquiry.PlantName,
		"disease":     inquiry.DiseaseName,
		"description": inquiry.IssueDescription,
		"location":    inquiry.Location,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.treatmentURL, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to build treatment request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("treatment call failed: %v", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("treatment service returned %d: %s", resp.StatusCode, string(raw)))
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode treatment response")
	}

	return &suggestion, nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
