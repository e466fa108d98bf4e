package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notification-service/internal/mocks"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.notification-service", "notification-service", "test")

	var envelope AuditEnvelope
	publisher.On("Publish", mock.Anything, "audit.notification-service", mock.AnythingOfType("telemetry.AuditEnvelope")).
		Run(func(args mock.Arguments) {
			envelope = args.Get(2).(AuditEnvelope)
		}).
		Return(nil).Once()

	userID := "u1"
	emitter.Emit(context.Background(), "INFO", "Token attached", "req-1", &userID)

	publisher.AssertExpectations(t)
	require.Equal(t, 1, envelope.SchemaVersion)
	require.Equal(t, "audit_log", envelope.EventType)
	require.NotEmpty(t, envelope.OccurredAt)
	require.Equal(t, "notification-service", envelope.Service)
	require.Equal(t, "test", envelope.Environment)
	require.Equal(t, "req-1", envelope.RequestID)
	require.NotNil(t, envelope.UserID)
	require.Equal(t, "u1", *envelope.UserID)
	require.Equal(t, "INFO", envelope.Payload.Level)
	require.Equal(t, "Token attached", envelope.Payload.Text)
}

func TestEmitOmitsAnonymousUser(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.notification-service", "notification-service", "test")

	var envelope AuditEnvelope
	publisher.On("Publish", mock.Anything, "audit.notification-service", mock.AnythingOfType("telemetry.AuditEnvelope")).
		Run(func(args mock.Arguments) {
			envelope = args.Get(2).(AuditEnvelope)
		}).
		Return(nil).Once()

	emitter.Emit(context.Background(), "ERROR", "invalid attach request", "req-2", nil)

	publisher.AssertExpectations(t)
	require.Nil(t, envelope.UserID)
}

func TestEmitAbsorbsPublishError(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.notification-service", "notification-service", "test")

	publisher.On("Publish", mock.Anything, "audit.notification-service", mock.AnythingOfType("telemetry.AuditEnvelope")).
		Return(errors.New("broker gone")).Once()

	// Audit is best-effort: a broker failure must never reach the caller.
	emitter.Emit(context.Background(), "INFO", "Group alert sent", "req-3", nil)
	publisher.AssertExpectations(t)
}

func TestEmitWithoutPublisherIsNoop(t *testing.T) {
	emitter := NewAuditEmitter(nil, "audit.notification-service", "notification-service", "test")
	emitter.Emit(context.Background(), "INFO", "noop", "req-4", nil)

	var nilEmitter *AuditEmitter
	nilEmitter.Emit(context.Background(), "INFO", "noop", "req-5", nil)
}
