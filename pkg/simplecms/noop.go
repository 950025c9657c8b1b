package simplecms

import (
	"context"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ItemCreated does nothing and returns nil
func (n *NoopEventSink) ItemCreated(ctx context.Context, item *Item) error {
	return nil
}

// ItemUpdated does nothing and returns nil
func (n *NoopEventSink) ItemUpdated(ctx context.Context, item *Item) error {
	return nil
}

// ItemDeleted does nothing and returns nil
func (n *NoopEventSink) ItemDeleted(ctx context.Context, id string) error {
	return nil
}
