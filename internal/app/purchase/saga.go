package purchase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga remembers the side effects of a purchase that can be undone.
// compensate runs them newest first and keeps going past failures.
type saga struct {
	log  *logrus.Entry
	done []compensation
}

func newSaga(log *logrus.Entry) *saga {
	return &saga{log: log}
}

func (s *saga) record(name string, undo func(ctx context.Context) error) {
	s.done = append(s.done, compensation{name: name, undo: undo})
}

func (s *saga) compensate(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(s.done) - 1; i >= 0; i-- {
		c := s.done[i]
		if err := c.undo(ctx); err != nil {
			s.log.WithError(err).Errorf("compensation %q failed", c.name)
			errs = append(errs, err)
			continue
		}
		s.log.Infof("compensation %q applied", c.name)
	}
	s.done = nil
	return errors.Join(errs...)
}
