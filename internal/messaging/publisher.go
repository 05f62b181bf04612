package messaging

import (
	"context"

	"github.com/solspace/solspace-backend/internal/domain"
)

// Publisher defines the interface for publishing points events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a points event after it has been committed
	PublishEvent(ctx context.Context, event *domain.PointsEvent) error
	// Close closes the connection
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event, used when no broker is configured
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(context.Context, *domain.PointsEvent) error {
	return nil
}

func (noopPublisher) Close() {}
