package browser

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"glossa/internal/domain"
	"glossa/internal/events"
	"glossa/internal/ports"
)

type fakeSearcher struct {
	calls atomic.Int64

	mu    sync.Mutex
	terms []*domain.Term
}

func (f *fakeSearcher) setTerms(terms []*domain.Term) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = terms
}

func (f *fakeSearcher) Match(context.Context, int64, string, []domain.SearchCriterion) ([]*domain.Term, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terms, nil
}

func (f *fakeSearcher) Stats(context.Context, int64) (*ports.TermbaseStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &ports.TermbaseStats{Entries: len(f.terms)}, nil
}

// fakeEntries and fakeTermbases override only the list reads the feeds use.
type fakeEntries struct {
	ports.EntryRepository
	mu      sync.Mutex
	entries []*domain.Entry
}

func (f *fakeEntries) setEntries(entries []*domain.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
}

func (f *fakeEntries) ListByTermbase(context.Context, int64) ([]*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, nil
}

type fakeTermbases struct {
	ports.TermbaseRepository
	termbases []*domain.Termbase
}

func (f *fakeTermbases) List(context.Context) ([]*domain.Termbase, error) {
	return f.termbases, nil
}

func TestSearchBoxCriterionShape(t *testing.T) {
	fields := []domain.MatchDescriptor{
		{Lemma: true, Lang: "en"},
		{PropertyID: 3},
	}
	c := SearchBoxCriterion("wing", fields)
	require.Equal(t, domain.MatchFuzzy, c.Kind)
	require.Equal(t, "wing", c.Text)
	require.Equal(t, fields, c.Descriptors)
}

func TestWatchPushesInitialResult(t *testing.T) {
	searcher := &fakeSearcher{terms: []*domain.Term{{ID: 1, Lemma: "bird"}}}
	svc := New(Deps{Searcher: searcher, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := svc.Watch(ctx, Filter{TermbaseID: 1, MainLang: "en"})

	select {
	case terms := <-out:
		require.Len(t, terms, 1)
		require.Equal(t, "bird", terms[0].Lemma)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial result")
	}
}

func TestWatchRefreshesOnMutationEvent(t *testing.T) {
	searcher := &fakeSearcher{}
	bus := events.NewBus()
	svc := New(Deps{Searcher: searcher, Events: bus, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := svc.Watch(ctx, Filter{TermbaseID: 1, MainLang: "en"})
	<-out // initial push

	searcher.setTerms([]*domain.Term{{ID: 2, Lemma: "robin"}})
	bus.Emit(ports.EventEntrySaved, int64(9))

	select {
	case terms := <-out:
		require.Len(t, terms, 1)
		require.Equal(t, "robin", terms[0].Lemma)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh after mutation event")
	}
}

func TestWatchRefreshesOnPollTick(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(Deps{Searcher: searcher, PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := svc.Watch(ctx, Filter{TermbaseID: 1, MainLang: "en"})
	<-out

	require.Eventually(t, func() bool {
		return searcher.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWatchEntriesRefreshesOnMutationEvent(t *testing.T) {
	entries := &fakeEntries{entries: []*domain.Entry{{ID: 1, TermbaseID: 1}}}
	bus := events.NewBus()
	svc := New(Deps{Entries: entries, Events: bus, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := svc.WatchEntries(ctx, 1)

	select {
	case got := <-out:
		require.Len(t, got, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial entry list")
	}

	entries.setEntries([]*domain.Entry{{ID: 1, TermbaseID: 1}, {ID: 2, TermbaseID: 1}})
	bus.Emit(ports.EventEntrySaved, int64(2))

	select {
	case got := <-out:
		require.Len(t, got, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh after mutation event")
	}
}

func TestWatchTermbasesPushesInitialList(t *testing.T) {
	termbases := &fakeTermbases{termbases: []*domain.Termbase{{ID: 1, Name: "ornithology"}}}
	svc := New(Deps{Termbases: termbases, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := svc.WatchTermbases(ctx)

	select {
	case got := <-out:
		require.Len(t, got, 1)
		require.Equal(t, "ornithology", got[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial termbase list")
	}
}

func TestWatchClosesOnContextDone(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(Deps{Searcher: searcher, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	out := svc.Watch(ctx, Filter{TermbaseID: 1})
	<-out
	cancel()

	select {
	case _, ok := <-out:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
