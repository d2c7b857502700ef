package outbox

import (
	"time"
)

// Message represents an event staged in the outbox table for delivery to
// RabbitMQ. Rows are written inside the same transaction as the change they
// describe and published asynchronously by the outbox worker.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
