package ports

import (
	"context"

	"glossa/internal/domain"
)

// TermbaseStats are the browsing UI's count queries. TermsPerLanguage and
// CompletePerLanguage are keyed by language code; "complete" counts entries
// holding at least one term in that language.
type TermbaseStats struct {
	Entries             int            `json:"entries"`
	Terms               int            `json:"terms"`
	TermsPerLanguage    map[string]int `json:"terms_per_language"`
	CompletePerLanguage map[string]int `json:"complete_per_language"`
}

// TermSearcher is the Record Store's query path: it evaluates a compiled
// criteria list and answers the count queries over the same join shape.
type TermSearcher interface {
	// Match returns the terms of the termbase in mainLang for which every
	// criterion holds. The result is term-unique.
	Match(ctx context.Context, termbaseID int64, mainLang string, criteria []domain.SearchCriterion) ([]*domain.Term, error)
	Stats(ctx context.Context, termbaseID int64) (*TermbaseStats, error)
}
