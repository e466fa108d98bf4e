package notify

import (
	"context"
	"log"

	"notification-service/internal/observability"
	"notification-service/internal/push"
	"notification-service/internal/repositories"
)

const chatBodyLimit = 80

// GroupAlertMessage builds the payload announcing new group activity. It
// targets the pre-provisioned alert channel with its forced sound.
func GroupAlertMessage() push.Message {
	return push.Message{
		Title:     "🎉 New activity in your group",
		Body:      "Your group has unlocked something new. Take a look!",
		Data:      map[string]string{"type": "alert"},
		ChannelID: "group-alerts-v3",
		Sound:     "alert",
	}
}

// ChatMessage builds the payload for a chat message. No channel or sound is
// set so the device uses its default, keeping chat apart from the alert
// channel's forced sound.
func ChatMessage(text string) push.Message {
	return push.Message{
		Title: "New chat message",
		Body:  truncate(text, chatBodyLimit),
		Data:  map[string]string{"type": "chat"},
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

// Dispatcher sends multicast notifications and feeds unregistered-token
// reports back into the token registry.
type Dispatcher struct {
	transport push.Transport
	tokens    repositories.TokenRepository
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(transport push.Transport, tokens repositories.TokenRepository) *Dispatcher {
	return &Dispatcher{transport: transport, tokens: tokens}
}

// Dispatch sends msg to the tokens in one multicast call and invalidates every
// token the gateway reports as unregistered, with exactly one registry call
// for the whole batch. Returns the number of successful sends. Non-token
// failures (network, quota) are not retried here; they surface as transient
// errors for the trigger infrastructure's retry policy.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, msg push.Message) (int, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result, err := d.transport.SendMulticast(ctx, tokens, msg)
	if err != nil {
		observability.IncPushDispatchError()
		return 0, err
	}

	var invalid []string
	for i, resp := range result.Responses {
		if !resp.Success && resp.ErrorCode == push.ErrorCodeUnregistered {
			invalid = append(invalid, tokens[i])
		}
	}
	if len(invalid) > 0 {
		if err := d.tokens.InvalidateMany(ctx, invalid); err != nil {
			return result.SuccessCount, err
		}
		observability.AddTokensInvalidated(len(invalid))
	}

	observability.AddNotificationsSent(result.SuccessCount)
	log.Printf("push dispatch complete sent=%d failed=%d invalidated=%d", result.SuccessCount, result.FailureCount, len(invalid))
	return result.SuccessCount, nil
}
