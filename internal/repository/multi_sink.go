package repository

import (
	"context"
	"errors"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
)

// MultiSink fans one event out to several sinks. Append returns the joined
// errors but delivers to every sink regardless.
type MultiSink struct {
	sinks []repository.EventSink
}

func NewMultiSink(sinks ...repository.EventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Append(ctx context.Context, ev *models.DecisionEvent) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Append(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *MultiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ repository.EventSink = (*MultiSink)(nil)
