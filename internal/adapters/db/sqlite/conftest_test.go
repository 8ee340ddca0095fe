package sqlite

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"glossa/internal/domain"
)

// setupDB opens a single-connection in-memory database; more than one
// connection would silently address separate in-memory databases.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fixture is one termbase with two languages, used by most store tests.
type fixture struct {
	db       *sql.DB
	termbase *domain.Termbase
	en, it   *domain.Language
}

func setupTermbase(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	ctx := context.Background()

	tb := &domain.Termbase{Name: "ornithology"}
	require.NoError(t, NewTermbaseRepo(db).Create(ctx, tb))

	langs := NewLanguageRepo(db)
	en := &domain.Language{TermbaseID: tb.ID, Code: "en"}
	it := &domain.Language{TermbaseID: tb.ID, Code: "it"}
	require.NoError(t, langs.Create(ctx, en))
	require.NoError(t, langs.Create(ctx, it))

	return &fixture{db: db, termbase: tb, en: en, it: it}
}

// addTerm creates an entry (when entryID is 0) plus one term and returns both ids.
func (f *fixture) addTerm(t *testing.T, entryID int64, lang, lemma string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	if entryID == 0 {
		e := &domain.Entry{TermbaseID: f.termbase.ID}
		require.NoError(t, NewEntryRepo(f.db).Create(ctx, e))
		entryID = e.ID
	}
	tm := &domain.Term{EntryID: entryID, Lang: lang, Lemma: lemma}
	require.NoError(t, NewTermRepo(f.db).Create(ctx, tm))
	return entryID, tm.ID
}
