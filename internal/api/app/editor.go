package app

import (
	"context"

	"glossa/internal/domain"
	"glossa/internal/ports"
	"glossa/internal/usecase/editor"
)

// EditorAPI exposes one edit session to the surrounding UI. The session
// serializes its own loads and commits; this layer only adds the
// new-entry flow.
type EditorAPI struct {
	session *editor.Session
	entries ports.EntryRepository
}

func NewEditorAPI(session *editor.Session, entries ports.EntryRepository) *EditorAPI {
	return &EditorAPI{session: session, entries: entries}
}

// NewEntry creates an empty entry and opens it for editing, which seeds the
// mandatory placeholder rows of the termbase's input descriptors.
func (a *EditorAPI) NewEntry(ctx context.Context, termbaseID int64) (int64, error) {
	e := domain.Entry{TermbaseID: termbaseID}
	if err := a.entries.Create(ctx, &e); err != nil {
		return 0, err
	}
	if err := a.session.SetEntry(ctx, termbaseID, e.ID); err != nil {
		return 0, err
	}
	return e.ID, a.session.SetEditing(ctx, true)
}

func (a *EditorAPI) Open(ctx context.Context, termbaseID, entryID int64) error {
	return a.session.SetEntry(ctx, termbaseID, entryID)
}

func (a *EditorAPI) SetEditing(ctx context.Context, editing bool) error {
	return a.session.SetEditing(ctx, editing)
}

func (a *EditorAPI) Items() []editor.LineItem {
	return a.session.Items()
}

func (a *EditorAPI) InsertTermRow(index int, lang string) error {
	return a.session.InsertTermRow(index, lang)
}

func (a *EditorAPI) RemoveTermRow(index int) error {
	return a.session.RemoveTermRow(index)
}

func (a *EditorAPI) AddProperty(ctx context.Context, markerIndex int, propertyID int64) error {
	return a.session.AddProperty(ctx, markerIndex, propertyID)
}

// InsertPropertyRow places a property row at an explicit index and scope,
// for callers that position rows themselves instead of going through an
// add-property marker.
func (a *EditorAPI) InsertPropertyRow(ctx context.Context, index int, propertyID int64, level domain.PropertyLevel, entryID, languageID, termID int64) error {
	return a.session.InsertPropertyRow(ctx, index, propertyID, level, entryID, languageID, termID)
}

func (a *EditorAPI) RemovePropertyRow(index int) error {
	return a.session.RemovePropertyRow(index)
}

func (a *EditorAPI) SetLemma(index int, text string) error {
	return a.session.SetLemma(index, text)
}

func (a *EditorAPI) SetValue(index int, text string) error {
	return a.session.SetValue(index, text)
}

func (a *EditorAPI) AvailableProperties(ctx context.Context, markerIndex int) ([]*domain.Property, error) {
	return a.session.AvailableProperties(ctx, markerIndex)
}

func (a *EditorAPI) Save(ctx context.Context) error {
	return a.session.Commit(ctx)
}

// DeleteEntry removes the entry and everything beneath it.
func (a *EditorAPI) DeleteEntry(ctx context.Context, entryID int64) error {
	return a.entries.Delete(ctx, entryID)
}
