package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/pkg/circuitbreaker"
	"github.com/PradyunT/catapult-project/pkg/config"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash-latest"
)

// Client calls the Gemini generateContent API for plan generation and chat.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second, // plan generation can be slow
		},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents          []content       `json:"contents"`
	SystemInstruction *content        `json:"systemInstruction,omitempty"`
	GenerationConfig  *generateConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// generate sends one generateContent call, guarded by the circuit breaker,
// and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, operation, system, user string, jsonOutput bool) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("AI service is not configured (missing API key)")
	}

	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: user}}},
		},
	}
	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	if jsonOutput {
		reqBody.GenerationConfig = &generateConfig{ResponseMimeType: "application/json"}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var text string
	start := time.Now()
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var out generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("failed to decode gemini response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			if out.Error != nil {
				return fmt.Errorf("gemini error %d: %s", out.Error.Code, out.Error.Message)
			}
			return fmt.Errorf("gemini error: status %d", resp.StatusCode)
		}

		if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("gemini returned no candidates")
		}
		text = out.Candidates[0].Content.Parts[0].Text
		return nil
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordPlannerCallLatency(operation, status, time.Since(start))

	if err != nil {
		c.logger.Error("Gemini call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return "", err
	}
	return text, nil
}

// Chat returns a plain conversational reply grounded in the user's tasks.
func (c *Client) Chat(ctx context.Context, message, taskContext string) (string, error) {
	user := fmt.Sprintf("---\nUSER'S CURRENT TASK CONTEXT:\n%s\n---\n\n%s", taskContext, message)
	return c.generate(ctx, "chat", chatSystemPrompt, user, false)
}
