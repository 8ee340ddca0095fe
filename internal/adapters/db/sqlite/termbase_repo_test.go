package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"glossa/internal/domain"
)

func count(t *testing.T, f *fixture, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestLanguageCreateIsIdempotentPerCode(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	dup := &domain.Language{TermbaseID: f.termbase.ID, Code: "en"}
	require.NoError(t, NewLanguageRepo(f.db).Create(ctx, dup))
	require.Equal(t, f.en.ID, dup.ID)
	require.Equal(t, 2, count(t, f, `SELECT COUNT(*) FROM languages WHERE termbase_id = ?`, f.termbase.ID))
}

// Removing a language removes its terms and values, and any entry left with
// no terms at all afterwards.
func TestLanguageDeleteCascades(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()

	// entry1 survives through its en term; entry2 only exists in it.
	entry1, _ := f.addTerm(t, 0, "en", "bird")
	_, term1it := f.addTerm(t, entry1, "it", "uccello")
	entry2, term2it := f.addTerm(t, 0, "it", "pettirosso")

	note := &domain.Property{TermbaseID: f.termbase.ID, Name: "note", Level: domain.LevelTerm, Type: domain.TypeText}
	require.NoError(t, NewPropertyRepo(f.db).Create(ctx, note))
	tvs := NewTermValueRepo(f.db)
	require.NoError(t, tvs.Create(ctx, &domain.TermValue{TermID: term1it, PropertyID: note.ID, Value: "a"}))
	require.NoError(t, tvs.Create(ctx, &domain.TermValue{TermID: term2it, PropertyID: note.ID, Value: "b"}))
	usage := &domain.Property{TermbaseID: f.termbase.ID, Name: "usage", Level: domain.LevelLanguage, Type: domain.TypeText}
	require.NoError(t, NewPropertyRepo(f.db).Create(ctx, usage))
	require.NoError(t, NewLanguageValueRepo(f.db).Create(ctx,
		&domain.LanguageValue{EntryID: entry2, LanguageID: f.it.ID, PropertyID: usage.ID, Value: "rare"}))
	require.NoError(t, NewInputDescriptorRepo(f.db).Create(ctx,
		&domain.InputDescriptor{TermbaseID: f.termbase.ID, PropertyID: usage.ID, LanguageID: f.it.ID}))

	require.NoError(t, NewLanguageRepo(f.db).Delete(ctx, f.it.ID))

	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM terms WHERE lang = 'it'`))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM term_values`))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM language_values`))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM input_descriptors WHERE language_id = ?`, f.it.ID))
	require.Equal(t, 1, count(t, f, `SELECT COUNT(*) FROM entries WHERE id = ?`, entry1))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM entries WHERE id = ?`, entry2))
}

func TestTermbaseDeleteCascades(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	entry, _ := f.addTerm(t, 0, "en", "bird")
	require.NoError(t, NewTermbaseRepo(f.db).Delete(ctx, f.termbase.ID))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM languages`))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM entries WHERE id = ?`, entry))
	require.Equal(t, 0, count(t, f, `SELECT COUNT(*) FROM terms`))
}

// Deleting a property leaves its stored values behind: they become invisible
// orphans rather than lost data.
func TestPropertyDeleteLeavesValuesOrphaned(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	entry, _ := f.addTerm(t, 0, "en", "bird")

	props := NewPropertyRepo(f.db)
	p := &domain.Property{TermbaseID: f.termbase.ID, Name: "domain", Level: domain.LevelEntry, Type: domain.TypeText}
	require.NoError(t, props.Create(ctx, p))
	require.NoError(t, NewEntryValueRepo(f.db).Create(ctx,
		&domain.EntryValue{EntryID: entry, PropertyID: p.ID, Value: "zoology"}))

	require.NoError(t, props.Delete(ctx, p.ID))
	require.Equal(t, 1, count(t, f, `SELECT COUNT(*) FROM entry_values WHERE property_id = ?`, p.ID))
}

func TestPropertyHasValues(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	props := NewPropertyRepo(f.db)
	p := &domain.Property{TermbaseID: f.termbase.ID, Name: "domain", Level: domain.LevelEntry, Type: domain.TypeText}
	require.NoError(t, props.Create(ctx, p))

	has, err := props.HasValues(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, has)

	entry, _ := f.addTerm(t, 0, "en", "bird")
	require.NoError(t, NewEntryValueRepo(f.db).Create(ctx,
		&domain.EntryValue{EntryID: entry, PropertyID: p.ID, Value: "zoology"}))

	has, err = props.HasValues(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, has)
}

func TestPicklistChoicesRoundTrip(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	props := NewPropertyRepo(f.db)
	p := &domain.Property{
		TermbaseID: f.termbase.ID, Name: "status",
		Level: domain.LevelTerm, Type: domain.TypePicklist,
		Choices: []string{"preferred", "admitted", "deprecated"},
	}
	require.NoError(t, props.Create(ctx, p))

	got, err := props.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Choices, got.Choices)

	p.Choices = []string{"preferred", "deprecated"}
	require.NoError(t, props.Update(ctx, p))
	got, err = props.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"preferred", "deprecated"}, got.Choices)
}

func TestInputDescriptorCreateIgnoresDuplicates(t *testing.T) {
	f := setupTermbase(t)
	ctx := context.Background()
	descs := NewInputDescriptorRepo(f.db)
	d := &domain.InputDescriptor{TermbaseID: f.termbase.ID, LanguageID: f.en.ID}
	require.NoError(t, descs.Create(ctx, d))
	require.NoError(t, descs.Create(ctx, &domain.InputDescriptor{TermbaseID: f.termbase.ID, LanguageID: f.en.ID}))
	list, err := descs.ListByTermbase(ctx, f.termbase.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSettingsGetMissingKeyIsEmpty(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	settings := NewSettingsRepo(db)

	v, err := settings.Get(ctx, "last_termbase")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, settings.Set(ctx, "last_termbase", "3"))
	require.NoError(t, settings.Set(ctx, "last_termbase", "7"))
	v, err = settings.Get(ctx, "last_termbase")
	require.NoError(t, err)
	require.Equal(t, "7", v)
}
