package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notification-service/internal/rabbitmq"
)

// PublisherMock stands in for the AMQP audit publisher. It satisfies both
// rabbitmq.Publisher and telemetry.Publisher, which share the same shape.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*PublisherMock)(nil)
