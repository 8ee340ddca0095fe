package browser

import (
	"context"
	"time"

	"go.uber.org/zap"

	"glossa/internal/domain"
	"glossa/internal/ports"
)

type Deps struct {
	Searcher  ports.TermSearcher
	Entries   ports.EntryRepository
	Termbases ports.TermbaseRepository
	Events    ports.EventSource
	Log       *zap.Logger
	// PollInterval paces the background refresh of live feeds; mutation
	// events refresh them immediately on top of that.
	PollInterval time.Duration
}

// Service is the browsing read path: one-shot filtered searches, the count
// statistics, and a live term feed combining polling with push events.
type Service struct {
	d Deps
}

func New(d Deps) *Service {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.PollInterval <= 0 {
		d.PollInterval = 5 * time.Second
	}
	return &Service{d: d}
}

// Filter is one browsing query: all criteria must hold for a term to show.
type Filter struct {
	TermbaseID int64
	MainLang   string
	Criteria   []domain.SearchCriterion
}

func (s *Service) Search(ctx context.Context, f Filter) ([]*domain.Term, error) {
	return s.d.Searcher.Match(ctx, f.TermbaseID, f.MainLang, f.Criteria)
}

func (s *Service) Stats(ctx context.Context, termbaseID int64) (*ports.TermbaseStats, error) {
	return s.d.Searcher.Stats(ctx, termbaseID)
}

func (s *Service) Entries(ctx context.Context, termbaseID int64) ([]*domain.Entry, error) {
	return s.d.Entries.ListByTermbase(ctx, termbaseID)
}

func (s *Service) Termbases(ctx context.Context) ([]*domain.Termbase, error) {
	return s.d.Termbases.List(ctx)
}

// SearchBoxCriterion builds the single fuzzy criterion a free-text search
// box feeds: one descriptor per searchable field, ORed. With empty text the
// criterion still selects rows by field existence only.
func SearchBoxCriterion(text string, fields []domain.MatchDescriptor) domain.SearchCriterion {
	return domain.SearchCriterion{Kind: domain.MatchFuzzy, Text: text, Descriptors: fields}
}

// Watch emits the filter's current result immediately and again on every
// poll tick and mutation event, until ctx is done. Poll and push converge
// on the same idempotent query.
func (s *Service) Watch(ctx context.Context, f Filter) <-chan []*domain.Term {
	return watchLoop(ctx, s, "terms", func(ctx context.Context) ([]*domain.Term, error) {
		return s.Search(ctx, f)
	})
}

// WatchEntries is the live variant of Entries.
func (s *Service) WatchEntries(ctx context.Context, termbaseID int64) <-chan []*domain.Entry {
	return watchLoop(ctx, s, "entries", func(ctx context.Context) ([]*domain.Entry, error) {
		return s.d.Entries.ListByTermbase(ctx, termbaseID)
	})
}

// WatchTermbases is the live variant of Termbases.
func (s *Service) WatchTermbases(ctx context.Context) <-chan []*domain.Termbase {
	return watchLoop(ctx, s, "termbases", func(ctx context.Context) ([]*domain.Termbase, error) {
		return s.d.Termbases.List(ctx)
	})
}

// watchLoop re-runs read on every poll tick and mutation event and pushes
// the result, until ctx is done.
func watchLoop[T any](ctx context.Context, s *Service, what string, read func(context.Context) ([]T, error)) <-chan []T {
	out := make(chan []T, 1)
	var events <-chan ports.Event
	cancelSub := func() {}
	if s.d.Events != nil {
		events, cancelSub = s.d.Events.Subscribe(
			ports.EventEntrySaved, ports.EventLanguagesChanged, ports.EventTermbaseChanged)
	}
	push := func() {
		vals, err := read(ctx)
		if err != nil {
			s.d.Log.Warn("watch refresh failed", zap.String("feed", what), zap.Error(err))
			return
		}
		// replace a stale pending result rather than block on a slow consumer
		select {
		case out <- vals:
		default:
			select {
			case <-out:
			default:
			}
			select {
			case out <- vals:
			default:
			}
		}
	}
	go func() {
		defer close(out)
		defer cancelSub()
		ticker := time.NewTicker(s.d.PollInterval)
		defer ticker.Stop()
		push()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				push()
			case _, ok := <-events:
				if !ok {
					return
				}
				push()
			}
		}
	}()
	return out
}
