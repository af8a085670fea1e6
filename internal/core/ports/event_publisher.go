package ports

import "context"

// EventPublisher emits best-effort catalog lifecycle events. Implementations
// must not block the request path beyond their own timeout; a publish
// failure is logged by the caller and never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
