package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the Expo push API.
const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// Notification is one push message addressed to a single device token.
type Notification struct {
	Title string
	Body  string
	Data  map[string]any
}

// Client talks to the Expo push service. Push delivery is best-effort
// throughout the relay: callers log failures and move on.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates an Expo push client. An empty endpoint selects the
// public Expo API; tests point it at a local server.
func NewClient(endpoint string, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type pushRequest struct {
	To    string         `json:"to"`
	Title string         `json:"title,omitempty"`
	Body  string         `json:"body,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound,omitempty"`
}

type pushResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

// SendPush attempts exactly one delivery of the notification to token.
func (c *Client) SendPush(ctx context.Context, token string, n Notification) error {
	payload := pushRequest{
		To:    token,
		Title: n.Title,
		Body:  n.Body,
		Data:  n.Data,
		Sound: "default",
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read push response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed pushResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("failed to parse push response: %w", err)
	}
	if parsed.Data.Status != "" && parsed.Data.Status != "ok" {
		return fmt.Errorf("push rejected: %s", parsed.Data.Message)
	}

	c.log.Debug("push notification sent", zap.String("title", n.Title))
	return nil
}
