package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger interface for client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Artifacts is the three-part source payload produced by the generator
type Artifacts struct {
	Markup string `json:"markup"`
	Styles string `json:"styles"`
	Logic  string `json:"logic"`
}

// GenerateRequest is the wire request to the artifact generator
type GenerateRequest struct {
	Prompt   string     `json:"prompt"`
	Previous *Artifacts `json:"previous,omitempty"`
}

// GenerateResult is the wire response from the artifact generator
type GenerateResult struct {
	Artifacts   Artifacts `json:"artifacts"`
	Description string    `json:"description"`
}

type generateResponse struct {
	Artifacts   *Artifacts `json:"artifacts"`
	Description string     `json:"description"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratorClient calls the external AI artifact generation service
type GeneratorClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  Logger
}

// NewGeneratorClient creates a new generator client
func NewGeneratorClient(baseURL, apiKey string, timeout time.Duration, logger Logger) *GeneratorClient {
	return &GeneratorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Generate asks the generator for a new artifact triple. Transient failures
// are returned as errors; no retry policy is applied here.
func (c *GeneratorClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("generator request failed", "error", err)
		return nil, fmt.Errorf("failed to reach generator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("generator returned error status", "status", resp.StatusCode)
		return nil, fmt.Errorf("generator request failed (%d)", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, fmt.Errorf("generator error: %s", parsed.Error.Message)
	}
	if parsed.Artifacts == nil {
		return nil, fmt.Errorf("generator returned no artifacts")
	}

	c.logger.Debug("generator responded",
		"markup_bytes", len(parsed.Artifacts.Markup),
		"styles_bytes", len(parsed.Artifacts.Styles),
		"logic_bytes", len(parsed.Artifacts.Logic),
	)

	return &GenerateResult{
		Artifacts:   *parsed.Artifacts,
		Description: parsed.Description,
	}, nil
}
