package animals

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store failure")
)

// Recorder recibe métricas del motor. La implementación real vive en platform/metrics.
type Recorder interface {
	ObserveQuery(kind string, results int)
	ObserveSubmission(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(string, int)  {}
func (nopRecorder) ObserveSubmission(string) {}

type Service struct {
	provider Provider
	rnd      Rand
	now      func() time.Time
	metrics  Recorder
}

type Option func(*Service)

func WithRand(r Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rnd = r
		}
	}
}

func WithRecorder(m Recorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		rnd:      globalRand{},
		now:      time.Now,
		metrics:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCatalog adquiere un handle del store, corre fn y lo libera siempre,
// aunque fn falle o haga panic.
func (s *Service) WithCatalog(ctx context.Context, fn func(c *Catalog) error) (err error) {
	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire: %v", ErrStore, err)
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: release: %v", ErrStore, cerr)
		}
	}()

	return fn(&Catalog{
		store:   h,
		rnd:     s.rnd,
		now:     s.now,
		metrics: s.metrics,
	})
}

// ListAll se mide como "list" acá y no en Catalog.ListAll, que Search y
// Sample reutilizan.
func (s *Service) ListAll(ctx context.Context) ([]Animal, error) {
	var out []Animal
	err := s.WithCatalog(ctx, func(c *Catalog) error {
		var err error
		out, err = c.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveQuery("list", len(out))
	return out, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]Animal, error) {
	var out []Animal
	err := s.WithCatalog(ctx, func(c *Catalog) error {
		var err error
		out, err = c.Search(ctx, query)
		return err
	})
	return out, err
}

func (s *Service) Sample(ctx context.Context, count int) ([]Animal, error) {
	var out []Animal
	err := s.WithCatalog(ctx, func(c *Catalog) error {
		var err error
		out, err = c.Sample(ctx, count)
		return err
	})
	return out, err
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	var out Animal
	err := s.WithCatalog(ctx, func(c *Catalog) error {
		var err error
		out, err = c.Get(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) Create(ctx context.Context, sub Submission) (string, Validation, error) {
	var (
		id string
		v  Validation
	)
	err := s.WithCatalog(ctx, func(c *Catalog) error {
		var err error
		id, v, err = c.Create(ctx, sub)
		return err
	})
	return id, v, err
}
