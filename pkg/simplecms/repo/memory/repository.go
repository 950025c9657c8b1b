package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Repository implements simplecms.Repository using in-memory storage.
//
// items keeps insertion order, byID indexes the same pointers. Both are
// only touched with mu held.
type Repository struct {
	mu     sync.RWMutex
	items  []*simplecms.Item
	byID   map[string]*simplecms.Item
	nextID uint64
	now    func() time.Time
}

// Option configures a Repository
type Option func(*Repository)

// WithSeed preloads items in order. Items with empty or duplicate ids are
// skipped. The id counter continues past the highest numeric seed id.
func WithSeed(items []*simplecms.Item) Option {
	return func(r *Repository) {
		for _, item := range items {
			if item == nil || item.ID == "" {
				continue
			}
			if _, exists := r.byID[item.ID]; exists {
				continue
			}
			itemCopy := item.Clone()
			if itemCopy.UpdatedAt.Before(itemCopy.CreatedAt) {
				itemCopy.UpdatedAt = itemCopy.CreatedAt
			}
			r.items = append(r.items, itemCopy)
			r.byID[itemCopy.ID] = itemCopy
			if n, err := strconv.ParseUint(itemCopy.ID, 10, 64); err == nil && n >= r.nextID {
				r.nextID = n + 1
			}
		}
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a new in-memory repository
func New(opts ...Option) *Repository {
	r := &Repository{
		byID:   make(map[string]*simplecms.Item),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSeeded creates a repository holding simplecms.DefaultSeed
func NewSeeded(opts ...Option) *Repository {
	return New(append([]Option{WithSeed(simplecms.DefaultSeed())}, opts...)...)
}

func (r *Repository) ListItems(ctx context.Context) ([]*simplecms.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simplecms.Item, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item.Clone())
	}
	return result, nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*simplecms.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.byID[id]
	if !exists {
		return nil, simplecms.ErrItemNotFound
	}
	return item.Clone(), nil
}

func (r *Repository) CreateItem(ctx context.Context, fields simplecms.ItemFields) (*simplecms.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	item := &simplecms.Item{
		ID:        r.generateID(),
		Title:     fields.Title,
		Content:   fields.Content,
		Type:      fields.Type,
		Status:    fields.Status,
		Author:    fields.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.items = append(r.items, item)
	r.byID[item.ID] = item

	return item.Clone(), nil
}

func (r *Repository) UpdateItem(ctx context.Context, id string, patch simplecms.ItemPatch) (*simplecms.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.byID[id]
	if !exists {
		return nil, simplecms.ErrItemNotFound
	}

	patch.Apply(item)
	// Clock steps backwards must not break createdAt <= updatedAt.
	if now := r.now(); now.After(item.UpdatedAt) {
		item.UpdatedAt = now
	}

	return item.Clone(), nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return simplecms.ErrItemNotFound
	}

	delete(r.byID, id)
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context) (*simplecms.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return simplecms.ComputeStats(r.items), nil
}

// Len returns the number of live items
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// generateID must be called with mu held.
func (r *Repository) generateID() string {
	for {
		id := strconv.FormatUint(r.nextID, 10)
		r.nextID++
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

var _ simplecms.Repository = (*Repository)(nil)
