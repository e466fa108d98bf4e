// Package push defines the contract with the external push-delivery gateway.
package push

import "context"

// ErrorCodeUnregistered is the per-token outcome code reported by the gateway
// for tokens the provider no longer recognizes. Such tokens must be removed
// from the registry.
const ErrorCodeUnregistered = "UNREGISTERED"

// Message is a channel-agnostic notification payload. ChannelID and Sound are
// optional; when empty the device uses its default notification channel.
type Message struct {
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	ChannelID string            `json:"channel_id,omitempty"`
	Sound     string            `json:"sound,omitempty"`
}

// SendResponse is the outcome for a single token.
type SendResponse struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
}

// MulticastResult reports per-token outcomes aligned by index with the token
// list passed to SendMulticast.
type MulticastResult struct {
	SuccessCount int            `json:"success_count"`
	FailureCount int            `json:"failure_count"`
	Responses    []SendResponse `json:"responses"`
}

// Transport is the multicast-send capability of the push gateway.
type Transport interface {
	SendMulticast(ctx context.Context, tokens []string, msg Message) (MulticastResult, error)
}
