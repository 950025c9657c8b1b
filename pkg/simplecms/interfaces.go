package simplecms

import (
	"context"
)

// Repository defines the interface for content item persistence.
//
// Implementations own the collection exclusively: returned items are copies,
// mutations are atomic with respect to each other, and reads never observe a
// partially applied mutation. Missing ids are reported with ErrItemNotFound.
type Repository interface {
	// ListItems returns every item in insertion order
	ListItems(ctx context.Context) ([]*Item, error)

	// GetItem returns the item with the given id
	GetItem(ctx context.Context, id string) (*Item, error)

	// CreateItem assigns a fresh id and timestamps and appends the item
	CreateItem(ctx context.Context, fields ItemFields) (*Item, error)

	// UpdateItem applies patch to the item and refreshes UpdatedAt
	UpdateItem(ctx context.Context, id string, patch ItemPatch) (*Item, error)

	// DeleteItem permanently removes the item
	DeleteItem(ctx context.Context, id string) error

	// Stats aggregates counts over the current collection
	Stats(ctx context.Context) (*Stats, error)
}

// EventSink defines the interface for event handling
type EventSink interface {
	// ItemCreated is fired when an item is created
	ItemCreated(ctx context.Context, item *Item) error

	// ItemUpdated is fired when an item is updated
	ItemUpdated(ctx context.Context, item *Item) error

	// ItemDeleted is fired when an item is deleted
	ItemDeleted(ctx context.Context, id string) error
}
