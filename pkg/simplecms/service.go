package simplecms

import (
	"context"
)

// Service defines the main interface used by the HTTP layer
type Service interface {
	// Admin operations
	ListItems(ctx context.Context) ([]*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	CreateItem(ctx context.Context, author Principal, req CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)

	// Public read path
	ListPublished(ctx context.Context, filter PublishedFilter) ([]*Item, error)
}
