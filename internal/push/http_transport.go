package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notification-service/internal/apperr"
)

// HTTPTransport talks to the push gateway over JSON/HTTP.
type HTTPTransport struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPTransport constructs a gateway client for the given base URL.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

type sendRequest struct {
	Tokens  []string `json:"tokens"`
	Message Message  `json:"message"`
}

// SendMulticast issues one multicast call and decodes the per-token report.
// Gateway or network failures surface as transient errors; they never imply
// anything about individual tokens.
func (t *HTTPTransport) SendMulticast(ctx context.Context, tokens []string, msg Message) (MulticastResult, error) {
	body, err := json.Marshal(sendRequest{Tokens: tokens, Message: msg})
	if err != nil {
		return MulticastResult{}, fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return MulticastResult{}, fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return MulticastResult{}, apperr.Transient("push gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return MulticastResult{}, apperr.Transient(fmt.Sprintf("push gateway status %d: %s", resp.StatusCode, respBody), nil)
	}

	var result MulticastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return MulticastResult{}, apperr.Transient("decode gateway response", err)
	}
	if len(result.Responses) != len(tokens) {
		return MulticastResult{}, apperr.Transient(fmt.Sprintf("gateway returned %d outcomes for %d tokens", len(result.Responses), len(tokens)), nil)
	}
	return result, nil
}
