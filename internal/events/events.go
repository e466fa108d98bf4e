// Package events routes store-change and blob-store triggers into the
// notification and ledger components.
package events

import (
	"context"
	"encoding/json"
	"log"

	"notification-service/internal/ledger"
	"notification-service/internal/models"
	"notification-service/internal/notify"
)

// Routing keys for the trigger exchange.
const (
	RoutingChatMessageCreated = "chat.message.created"
	RoutingGroupCreated       = "group.created"
	RoutingObjectFinalized    = "storage.object.finalized"
	RoutingObjectDeleted      = "storage.object.deleted"
)

// RoutingKeys lists every binding the trigger queue needs.
var RoutingKeys = []string{
	RoutingChatMessageCreated,
	RoutingGroupCreated,
	RoutingObjectFinalized,
	RoutingObjectDeleted,
}

// GroupCreated signals that a group document appeared in the store.
type GroupCreated struct {
	GroupID string `json:"group_id"`
}

// Handler dispatches decoded trigger events. Each handler call is independent
// and must tolerate duplicate and out-of-order delivery; the components it
// calls are idempotent or transactional for exactly that reason.
type Handler struct {
	resolver   *notify.Resolver
	dispatcher *notify.Dispatcher
	ledger     *ledger.Ledger
}

// NewHandler constructs a Handler.
func NewHandler(resolver *notify.Resolver, dispatcher *notify.Dispatcher, ledg *ledger.Ledger) *Handler {
	return &Handler{resolver: resolver, dispatcher: dispatcher, ledger: ledg}
}

// Handle processes one trigger event. Malformed payloads and unknown routing
// keys are absorbed with a log line so the broker does not redeliver them;
// transient component errors propagate for the consumer's retry policy.
func (h *Handler) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RoutingChatMessageCreated:
		var msg models.ChatMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Printf("trigger dropped, bad chat payload: %v", err)
			return nil
		}
		return h.handleChatMessage(ctx, msg)

	case RoutingGroupCreated:
		var event GroupCreated
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("trigger dropped, bad group payload: %v", err)
			return nil
		}
		return h.ledger.HandleGroupCreated(ctx, event.GroupID)

	case RoutingObjectFinalized:
		var event ledger.ObjectEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("trigger dropped, bad object payload: %v", err)
			return nil
		}
		return h.ledger.HandleObjectFinalized(ctx, event)

	case RoutingObjectDeleted:
		var event ledger.ObjectEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("trigger dropped, bad object payload: %v", err)
			return nil
		}
		return h.ledger.HandleObjectDeleted(ctx, event)

	default:
		log.Printf("trigger dropped, unknown routing key %q", routingKey)
		return nil
	}
}

func (h *Handler) handleChatMessage(ctx context.Context, msg models.ChatMessage) error {
	if msg.GroupID == "" || msg.SenderID == "" {
		log.Printf("trigger dropped, chat event missing group or sender")
		return nil
	}

	tokens, err := h.resolver.Resolve(ctx, msg.GroupID, msg.SenderID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	_, err = h.dispatcher.Dispatch(ctx, tokens, notify.ChatMessage(msg.Text))
	return err
}
