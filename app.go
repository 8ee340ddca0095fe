package main

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	dbsqlite "glossa/internal/adapters/db/sqlite"
	"glossa/internal/adapters/media"
	apiapp "glossa/internal/api/app"
	"glossa/internal/config"
	"glossa/internal/events"
	"glossa/internal/ports"
	"glossa/internal/usecase/browser"
	"glossa/internal/usecase/catalog"
	"glossa/internal/usecase/editor"
)

// App wires the persistence layer, the usecase services and the UI-facing
// APIs. The GUI shell and the CLI share this wiring.
type App struct {
	db  *sql.DB
	log *zap.Logger
	bus *events.Bus

	Settings ports.SettingsRepository

	Termbases *apiapp.TermbaseAPI
	Search    *apiapp.SearchAPI
	Editor    *apiapp.EditorAPI
}

func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := dbsqlite.Init(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	bus := events.NewBus()
	termbases := dbsqlite.NewTermbaseRepo(db)
	languages := dbsqlite.NewLanguageRepo(db)
	props := dbsqlite.NewPropertyRepo(db)
	descriptors := dbsqlite.NewInputDescriptorRepo(db)
	entries := dbsqlite.NewEntryRepo(db)
	terms := dbsqlite.NewTermRepo(db)
	entryValues := dbsqlite.NewEntryValueRepo(db)
	langValues := dbsqlite.NewLanguageValueRepo(db)
	termValues := dbsqlite.NewTermValueRepo(db)
	search := dbsqlite.NewSearchRepo(db)

	cat := catalog.New(props, descriptors, languages)
	files := media.New(cfg.Media.Root, log.Named("media"))
	session := editor.New(editor.Deps{
		Catalog:        cat,
		Entries:        entries,
		Terms:          terms,
		EntryValues:    entryValues,
		LanguageValues: langValues,
		TermValues:     termValues,
		Media:          files,
		Events:         bus,
		Log:            log.Named("editor"),
	})
	browse := browser.New(browser.Deps{
		Searcher:     search,
		Entries:      entries,
		Termbases:    termbases,
		Events:       bus,
		Log:          log.Named("browser"),
		PollInterval: cfg.PollInterval(),
	})

	return &App{
		db:       db,
		log:      log,
		bus:      bus,
		Settings: dbsqlite.NewSettingsRepo(db),

		Termbases: apiapp.NewTermbaseAPI(termbases, languages, props, descriptors, bus),
		Search:    apiapp.NewSearchAPI(browse, cat),
		Editor:    apiapp.NewEditorAPI(session, entries),
	}, nil
}

// Events exposes the refresh bus so an outer shell can forward signals to
// its own widgets.
func (a *App) Events() *events.Bus { return a.bus }

func (a *App) Close() error {
	return a.db.Close()
}
