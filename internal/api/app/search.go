package app

import (
	"context"

	"glossa/internal/domain"
	"glossa/internal/ports"
	"glossa/internal/usecase/browser"
	"glossa/internal/usecase/catalog"
)

// SearchAPI is the browsing surface: filtered term lists and the termbase
// statistics.
type SearchAPI struct {
	browser *browser.Service
	catalog *catalog.Service
}

func NewSearchAPI(b *browser.Service, c *catalog.Service) *SearchAPI {
	return &SearchAPI{browser: b, catalog: c}
}

type SearchRequest struct {
	TermbaseID int64                    `json:"termbase_id"`
	MainLang   string                   `json:"main_lang"`
	Criteria   []domain.SearchCriterion `json:"criteria"`
	// Text, when set, adds the free search box on top of Criteria: a fuzzy
	// criterion spanning the lemma and every property of the termbase in
	// the main language.
	Text string `json:"text"`
}

func (a *SearchAPI) Search(ctx context.Context, req SearchRequest) ([]*domain.Term, error) {
	criteria := req.Criteria
	if req.Text != "" {
		fields, err := a.searchableFields(ctx, req.TermbaseID, req.MainLang)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, browser.SearchBoxCriterion(req.Text, fields))
	}
	return a.browser.Search(ctx, browser.Filter{
		TermbaseID: req.TermbaseID,
		MainLang:   req.MainLang,
		Criteria:   criteria,
	})
}

func (a *SearchAPI) Stats(ctx context.Context, termbaseID int64) (*ports.TermbaseStats, error) {
	return a.browser.Stats(ctx, termbaseID)
}

func (a *SearchAPI) Entries(ctx context.Context, termbaseID int64) ([]*domain.Entry, error) {
	return a.browser.Entries(ctx, termbaseID)
}

func (a *SearchAPI) WatchEntries(ctx context.Context, termbaseID int64) <-chan []*domain.Entry {
	return a.browser.WatchEntries(ctx, termbaseID)
}

func (a *SearchAPI) WatchTermbases(ctx context.Context) <-chan []*domain.Termbase {
	return a.browser.WatchTermbases(ctx)
}

func (a *SearchAPI) Watch(ctx context.Context, req SearchRequest) <-chan []*domain.Term {
	return a.browser.Watch(ctx, browser.Filter{
		TermbaseID: req.TermbaseID,
		MainLang:   req.MainLang,
		Criteria:   req.Criteria,
	})
}

func (a *SearchAPI) searchableFields(ctx context.Context, termbaseID int64, mainLang string) ([]domain.MatchDescriptor, error) {
	props, err := a.catalog.PropertiesOf(ctx, termbaseID)
	if err != nil {
		return nil, err
	}
	fields := []domain.MatchDescriptor{{Lemma: true, Lang: mainLang}}
	for _, p := range props {
		switch p.Level {
		case domain.LevelEntry:
			fields = append(fields, domain.MatchDescriptor{PropertyID: p.ID})
		default:
			fields = append(fields, domain.MatchDescriptor{PropertyID: p.ID, Lang: mainLang})
		}
	}
	return fields, nil
}
