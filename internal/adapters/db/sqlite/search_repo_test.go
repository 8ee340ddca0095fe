package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"glossa/internal/domain"
)

// searchFixture builds three entries:
//
//	entry1: en "test" (term note "commonly used"), it "prova"
//	entry2: en "tester", en-language usage value "formal"
//	entry3: en "bird", it "uccello", entry-level domain value "zoology"
type searchFixture struct {
	*fixture
	search *SearchRepo

	domainProp, noteProp, usageProp *domain.Property

	entry1, entry2, entry3 int64
	term1en                int64
}

func setupSearch(t *testing.T) *searchFixture {
	t.Helper()
	f := setupTermbase(t)
	ctx := context.Background()
	sf := &searchFixture{fixture: f, search: NewSearchRepo(f.db)}

	props := NewPropertyRepo(f.db)
	sf.domainProp = &domain.Property{TermbaseID: f.termbase.ID, Name: "domain", Level: domain.LevelEntry, Type: domain.TypeText}
	sf.noteProp = &domain.Property{TermbaseID: f.termbase.ID, Name: "note", Level: domain.LevelTerm, Type: domain.TypeText}
	sf.usageProp = &domain.Property{TermbaseID: f.termbase.ID, Name: "usage", Level: domain.LevelLanguage, Type: domain.TypeText}
	for _, p := range []*domain.Property{sf.domainProp, sf.noteProp, sf.usageProp} {
		require.NoError(t, props.Create(ctx, p))
	}

	sf.entry1, sf.term1en = f.addTerm(t, 0, "en", "test")
	f.addTerm(t, sf.entry1, "it", "prova")
	sf.entry2, _ = f.addTerm(t, 0, "en", "tester")
	sf.entry3, _ = f.addTerm(t, 0, "en", "bird")
	f.addTerm(t, sf.entry3, "it", "uccello")

	require.NoError(t, NewTermValueRepo(f.db).Create(ctx,
		&domain.TermValue{TermID: sf.term1en, PropertyID: sf.noteProp.ID, Value: "commonly used"}))
	require.NoError(t, NewLanguageValueRepo(f.db).Create(ctx,
		&domain.LanguageValue{EntryID: sf.entry2, LanguageID: f.en.ID, PropertyID: sf.usageProp.ID, Value: "formal"}))
	require.NoError(t, NewEntryValueRepo(f.db).Create(ctx,
		&domain.EntryValue{EntryID: sf.entry3, PropertyID: sf.domainProp.ID, Value: "zoology"}))
	return sf
}

func lemmas(terms []*domain.Term) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Lemma)
	}
	return out
}

func TestMatchRestrictsToMainLanguage(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"test", "tester", "bird"}, lemmas(terms))
	for _, tm := range terms {
		require.Equal(t, "en", tm.Lang)
	}
}

func TestMatchFuzzyLemmaContainment(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "te", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"test", "tester"}, lemmas(terms))
}

func TestMatchExactLemmaEquality(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchExact, Text: "test", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"test"}, lemmas(terms))
}

func TestMatchFuzzyIsCaseSensitive(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "TE", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Empty(t, terms)
}

// Entry-level properties are language-agnostic: the entry's value matches no
// matter which language's terms are being filtered.
func TestMatchEntryPropertyIndependentOfLanguage(t *testing.T) {
	f := setupSearch(t)
	crit := []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "zoo", Descriptors: []domain.MatchDescriptor{{PropertyID: f.domainProp.ID}}},
	}
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "it", crit)
	require.NoError(t, err)
	require.Equal(t, []string{"uccello"}, lemmas(terms))

	terms, err = f.search.Match(context.Background(), f.termbase.ID, "en", crit)
	require.NoError(t, err)
	require.Equal(t, []string{"bird"}, lemmas(terms))
}

// A property descriptor in the main language matches via either the
// language-scoped or the term-scoped placement of that property.
func TestMatchPropertyViaLanguageOrTermScope(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchExact, Text: "formal", Descriptors: []domain.MatchDescriptor{{PropertyID: f.usageProp.ID, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"tester"}, lemmas(terms))

	terms, err = f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "commonly", Descriptors: []domain.MatchDescriptor{{PropertyID: f.noteProp.ID, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"test"}, lemmas(terms))
}

// Descriptors whose language differs from the main language are not
// evaluated; a criterion left without descriptors imposes no constraint.
func TestMatchSkipsForeignLanguageDescriptors(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "xyz", Descriptors: []domain.MatchDescriptor{{PropertyID: f.noteProp.ID, Lang: "it"}}},
	})
	require.NoError(t, err)
	require.Len(t, terms, 3)
}

func TestMatchCriteriaAreANDed(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "te", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
		{Kind: domain.MatchExact, Text: "tester", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"tester"}, lemmas(terms))
}

func TestMatchDescriptorsAreORed(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "zoology", Descriptors: []domain.MatchDescriptor{
			{Lemma: true, Lang: "en"},
			{PropertyID: f.domainProp.ID},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"bird"}, lemmas(terms))
}

// An empty fuzzy text selects by the existence of the descriptor's rows
// without constraining their text.
func TestMatchEmptyFuzzyTextSelectsByExistence(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "", Descriptors: []domain.MatchDescriptor{{PropertyID: f.noteProp.ID, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"test"}, lemmas(terms))
}

// A criterion matching a term through several join paths still yields the
// term once.
func TestMatchResultIsTermUnique(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchFuzzy, Text: "", Descriptors: []domain.MatchDescriptor{
			{Lemma: true, Lang: "en"},
			{PropertyID: f.noteProp.ID, Lang: "en"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, terms, 3)
	seen := map[int64]bool{}
	for _, tm := range terms {
		require.False(t, seen[tm.ID])
		seen[tm.ID] = true
	}
}

func TestMatchEmptyExactTextIsSkipped(t *testing.T) {
	f := setupSearch(t)
	terms, err := f.search.Match(context.Background(), f.termbase.ID, "en", []domain.SearchCriterion{
		{Kind: domain.MatchExact, Text: "", Descriptors: []domain.MatchDescriptor{{Lemma: true, Lang: "en"}}},
	})
	require.NoError(t, err)
	require.Len(t, terms, 3)
}

func TestStats(t *testing.T) {
	f := setupSearch(t)
	st, err := f.search.Stats(context.Background(), f.termbase.ID)
	require.NoError(t, err)
	require.Equal(t, 3, st.Entries)
	require.Equal(t, 5, st.Terms)
	require.Equal(t, map[string]int{"en": 3, "it": 2}, st.TermsPerLanguage)
	require.Equal(t, map[string]int{"en": 3, "it": 2}, st.CompletePerLanguage)
}
