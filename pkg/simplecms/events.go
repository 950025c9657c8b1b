package simplecms

import (
	"context"
	"errors"
	"log/slog"
)

// MultiEventSink fans events out to several sinks.
type MultiEventSink []EventSink

// NewMultiEventSink combines sinks, skipping nil entries.
func NewMultiEventSink(sinks ...EventSink) EventSink {
	var m MultiEventSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m MultiEventSink) ItemCreated(ctx context.Context, item *Item) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.ItemCreated(ctx, item))
	}
	return errors.Join(errs...)
}

func (m MultiEventSink) ItemUpdated(ctx context.Context, item *Item) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.ItemUpdated(ctx, item))
	}
	return errors.Join(errs...)
}

func (m MultiEventSink) ItemDeleted(ctx context.Context, id string) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.ItemDeleted(ctx, id))
	}
	return errors.Join(errs...)
}

// LoggingEventSink writes an audit line for every content mutation.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a sink logging to logger, or to slog.Default
// when logger is nil.
func NewLoggingEventSink(logger *slog.Logger) *LoggingEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ItemCreated(ctx context.Context, item *Item) error {
	l.logger.InfoContext(ctx, "Content created",
		"content_id", item.ID,
		"type", item.Type,
		"status", item.Status,
		"author", item.Author)
	return nil
}

func (l *LoggingEventSink) ItemUpdated(ctx context.Context, item *Item) error {
	l.logger.InfoContext(ctx, "Content updated",
		"content_id", item.ID,
		"type", item.Type,
		"status", item.Status)
	return nil
}

func (l *LoggingEventSink) ItemDeleted(ctx context.Context, id string) error {
	l.logger.InfoContext(ctx, "Content deleted", "content_id", id)
	return nil
}
