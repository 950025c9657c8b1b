package simplecms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// service implements the Service interface
type service struct {
	repository Repository
	eventSink  EventSink
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) ListItems(ctx context.Context) ([]*Item, error) {
	items, err := s.repository.ListItems(ctx)
	if err != nil {
		return nil, &ItemError{Op: "list", Err: err}
	}
	return items, nil
}

func (s *service) ListPublished(ctx context.Context, filter PublishedFilter) ([]*Item, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidItemType, filter.Type)
	}

	items, err := s.repository.ListItems(ctx)
	if err != nil {
		return nil, &ItemError{Op: "list published", Err: err}
	}

	published := make([]*Item, 0, len(items))
	for _, item := range items {
		if item.Status != ItemStatusPublished {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		published = append(published, item)
	}
	return published, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	item, err := s.repository.GetItem(ctx, id)
	if err != nil {
		return nil, s.wrap(id, "get", err)
	}
	return item, nil
}

func (s *service) CreateItem(ctx context.Context, author Principal, req CreateItemRequest) (*Item, error) {
	fields, err := validateCreate(req)
	if err != nil {
		return nil, err
	}
	fields.Author = author.DisplayName()

	item, err := s.repository.CreateItem(ctx, fields)
	if err != nil {
		return nil, &ItemError{Op: "create", Err: err}
	}

	if err := s.eventSink.ItemCreated(ctx, item); err != nil {
		s.logger.Warn("Event sink failed", "event", "item_created", "content_id", item.ID, "error", err)
	}

	return item, nil
}

// UpdateItem reports a missing id as ErrItemNotFound before looking at the
// request body.
func (s *service) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error) {
	if _, err := s.repository.GetItem(ctx, id); err != nil {
		return nil, s.wrap(id, "update", err)
	}

	patch, err := validateUpdate(req)
	if err != nil {
		return nil, err
	}

	item, err := s.repository.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, s.wrap(id, "update", err)
	}

	if err := s.eventSink.ItemUpdated(ctx, item); err != nil {
		s.logger.Warn("Event sink failed", "event", "item_updated", "content_id", id, "error", err)
	}

	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repository.DeleteItem(ctx, id); err != nil {
		return s.wrap(id, "delete", err)
	}

	if err := s.eventSink.ItemDeleted(ctx, id); err != nil {
		s.logger.Warn("Event sink failed", "event", "item_deleted", "content_id", id, "error", err)
	}

	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repository.Stats(ctx)
	if err != nil {
		return nil, &ItemError{Op: "stats", Err: err}
	}
	return stats, nil
}

// wrap keeps ErrItemNotFound bare so callers can compare it directly.
func (s *service) wrap(id, op string, err error) error {
	if errors.Is(err, ErrItemNotFound) {
		return ErrItemNotFound
	}
	return &ItemError{ItemID: id, Op: op, Err: err}
}

func validateCreate(req CreateItemRequest) (ItemFields, error) {
	verr := &ValidationError{}
	fields := ItemFields{
		Title:   strings.TrimSpace(req.Title),
		Content: strings.TrimSpace(req.Content),
	}

	if fields.Title == "" {
		verr.add("title", reasonRequired)
	}
	if fields.Content == "" {
		verr.add("content", reasonRequired)
	}

	if strings.TrimSpace(req.Type) == "" {
		verr.add("type", reasonRequired)
	} else if t, ok := ParseItemType(req.Type); ok {
		fields.Type = t
	} else {
		verr.add("type", reasonInvalid)
	}

	if strings.TrimSpace(req.Status) == "" {
		verr.add("status", reasonRequired)
	} else if st, ok := ParseItemStatus(req.Status); ok {
		fields.Status = st
	} else {
		verr.add("status", reasonInvalid)
	}

	return fields, verr.orNil()
}

func validateUpdate(req UpdateItemRequest) (ItemPatch, error) {
	verr := &ValidationError{}
	var patch ItemPatch

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			verr.add("title", reasonRequired)
		}
		patch.Title = &title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			verr.add("content", reasonRequired)
		}
		patch.Content = &content
	}
	if req.Type != nil {
		if t, ok := ParseItemType(*req.Type); ok {
			patch.Type = &t
		} else {
			verr.add("type", reasonInvalid)
		}
	}
	if req.Status != nil {
		if st, ok := ParseItemStatus(*req.Status); ok {
			patch.Status = &st
		} else {
			verr.add("status", reasonInvalid)
		}
	}

	return patch, verr.orNil()
}
