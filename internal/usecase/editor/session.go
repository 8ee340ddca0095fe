package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"glossa/internal/domain"
	"glossa/internal/ports"
	"glossa/internal/usecase/catalog"
)

var (
	ErrNotEditing = errors.New("editor: session is not in editing mode")
	ErrBadIndex   = errors.New("editor: index does not address the expected item")
)

type Deps struct {
	Catalog        *catalog.Service
	Entries        ports.EntryRepository
	Terms          ports.TermRepository
	EntryValues    ports.EntryValueRepository
	LanguageValues ports.LanguageValueRepository
	TermValues     ports.TermValueRepository
	Media          ports.MediaStore
	Events         ports.EventEmitter
	Log            *zap.Logger
}

// Session owns the flattened, editable representation of one entry's data
// graph. A single mutex serializes load, reload and commit; structural
// edits are pure in-memory list operations.
type Session struct {
	d Deps

	mu         sync.Mutex
	termbaseID int64
	entryID    int64
	editing    bool
	items      []LineItem
	delTerms   []int64
	delValues  []valueRef

	// gen invalidates superseded reloads: a reload only applies its result
	// while it is still the latest one requested.
	gen      atomic.Uint64
	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// valueRef is a property value queued for deletion.
type valueRef struct {
	Level      domain.PropertyLevel
	PropertyID int64
	ValueID    int64
}

func New(d Deps) *Session {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Session{d: d}
}

// SetEntry switches the session to another entry, cancelling any reload
// still in flight for the previous one and discarding unsaved edits.
func (s *Session) SetEntry(ctx context.Context, termbaseID, entryID int64) error {
	rctx, gen := s.supersede(ctx)
	return s.setEntry(rctx, gen, termbaseID, entryID)
}

func (s *Session) setEntry(ctx context.Context, gen uint64, termbaseID, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer selection may have won the lock between supersede and here;
	// applying this one would point the session at the wrong entry.
	if gen != s.gen.Load() {
		return nil
	}
	s.termbaseID = termbaseID
	s.entryID = entryID
	s.delTerms = nil
	s.delValues = nil
	return s.reloadLocked(ctx, gen)
}

// SetEditing toggles between viewing and editing. Either transition
// discards unsaved structural edits and reloads from the store.
func (s *Session) SetEditing(ctx context.Context, editing bool) error {
	rctx, gen := s.supersede(ctx)
	return s.setEditing(rctx, gen, editing)
}

func (s *Session) setEditing(ctx context.Context, gen uint64, editing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		return nil
	}
	if s.editing == editing {
		return nil
	}
	s.editing = editing
	s.delTerms = nil
	s.delValues = nil
	return s.reloadLocked(ctx, gen)
}

// Reload re-reads the entry. Called on external notifications such as
// "languages changed".
func (s *Session) Reload(ctx context.Context) error {
	rctx, gen := s.supersede(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(rctx, gen)
}

// Editing reports the current mode.
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Items returns a snapshot of the line-item list for rendering.
func (s *Session) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// supersede cancels the previous in-flight reload and hands out a fresh
// context plus the generation token the new reload must still hold when it
// applies its result.
func (s *Session) supersede(ctx context.Context) (context.Context, uint64) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return rctx, s.gen.Add(1)
}

// reloadLocked rebuilds the flattened list from the store. Results of a
// superseded reload are dropped so they cannot overwrite state loaded for a
// newer selection.
func (s *Session) reloadLocked(ctx context.Context, gen uint64) error {
	items, err := s.buildItems(ctx)
	if err != nil {
		s.d.Log.Warn("reload failed", zap.Int64("entry", s.entryID), zap.Error(err))
		return err
	}
	if gen != s.gen.Load() {
		s.d.Log.Debug("discarding superseded reload", zap.Int64("entry", s.entryID))
		return nil
	}
	s.items = items
	return nil
}

func (s *Session) buildItems(ctx context.Context) ([]LineItem, error) {
	entry, err := s.d.Entries.Get(ctx, s.entryID)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return nil, nil
	}
	props, err := s.d.Catalog.PropertyMap(ctx, s.termbaseID)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	langs, err := s.d.Catalog.LanguagesOf(ctx, s.termbaseID)
	if err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}
	entryVals, err := s.d.EntryValues.ListByEntry(ctx, s.entryID)
	if err != nil {
		return nil, fmt.Errorf("load entry values: %w", err)
	}
	langVals := make(map[int64][]*domain.LanguageValue, len(langs))
	langTerms := make(map[int64][]*domain.Term, len(langs))
	termVals := map[int64][]*domain.TermValue{}
	total := 0
	for _, l := range langs {
		lvs, err := s.d.LanguageValues.ListByEntryLanguage(ctx, s.entryID, l.ID)
		if err != nil {
			return nil, fmt.Errorf("load language values: %w", err)
		}
		langVals[l.ID] = lvs
		total += len(lvs)
		terms, err := s.d.Terms.ListByEntryLang(ctx, s.entryID, l.Code)
		if err != nil {
			return nil, fmt.Errorf("load terms: %w", err)
		}
		langTerms[l.ID] = terms
		total += len(terms)
		for _, t := range terms {
			tvs, err := s.d.TermValues.ListByTerm(ctx, t.ID)
			if err != nil {
				return nil, fmt.Errorf("load term values: %w", err)
			}
			termVals[t.ID] = tvs
		}
	}

	// Mandatory placeholders are seeded only for a brand-new entry with no
	// data anywhere; an entry with any data keeps only what it has.
	var descs []*domain.InputDescriptor
	if s.editing && total == 0 && len(entryVals) == 0 {
		descs, err = s.d.Catalog.InputDescriptorsOf(ctx, s.termbaseID)
		if err != nil {
			return nil, fmt.Errorf("load input descriptors: %w", err)
		}
	}

	items := []LineItem{&EntryHeader{EntryID: s.entryID}}
	for _, ev := range entryVals {
		if !s.editing {
			items = append(items, s.propertyDisplay(props, ev.PropertyID, ev.Value))
			continue
		}
		items = append(items, s.propertyRow(props, ev.PropertyID, domain.LevelEntry, ev.ID, ev.Value, s.entryID, 0, 0))
	}
	for _, d := range descs {
		if d.Lemma() || d.LanguageID != 0 {
			continue
		}
		if p, ok := props[d.PropertyID]; ok && p.Level == domain.LevelEntry {
			items = append(items, s.propertyRow(props, p.ID, domain.LevelEntry, 0, "", s.entryID, 0, 0))
		}
	}
	if s.editing {
		items = append(items, &AddPropertyMarker{Level: domain.LevelEntry, EntryID: s.entryID})
	}

	for _, l := range langs {
		items = append(items, &LanguageHeader{Language: *l})
		for _, lv := range langVals[l.ID] {
			if !s.editing {
				items = append(items, s.propertyDisplay(props, lv.PropertyID, lv.Value))
				continue
			}
			items = append(items, s.propertyRow(props, lv.PropertyID, domain.LevelLanguage, lv.ID, lv.Value, 0, l.ID, 0))
		}
		var seedTermProps []*domain.Property
		seedLemma := false
		for _, d := range descs {
			if d.LanguageID != l.ID {
				continue
			}
			if d.Lemma() {
				seedLemma = true
				continue
			}
			p, ok := props[d.PropertyID]
			if !ok {
				continue
			}
			switch p.Level {
			case domain.LevelLanguage:
				items = append(items, s.propertyRow(props, p.ID, domain.LevelLanguage, 0, "", 0, l.ID, 0))
			case domain.LevelTerm:
				seedTermProps = append(seedTermProps, p)
			}
		}
		if s.editing {
			items = append(items, &AddPropertyMarker{Level: domain.LevelLanguage, LanguageID: l.ID, Lang: l.Code})
		}
		for _, t := range langTerms[l.ID] {
			if s.editing {
				items = append(items, &LemmaRow{TermID: t.ID, Lang: t.Lang, Lemma: t.Lemma})
				for _, tv := range termVals[t.ID] {
					items = append(items, s.propertyRow(props, tv.PropertyID, domain.LevelTerm, tv.ID, tv.Value, 0, 0, t.ID))
				}
				items = append(items, &AddPropertyMarker{Level: domain.LevelTerm, TermID: t.ID, Lang: t.Lang})
				continue
			}
			items = append(items, &TermDisplay{Term: *t})
			for _, tv := range termVals[t.ID] {
				items = append(items, s.propertyDisplay(props, tv.PropertyID, tv.Value))
			}
		}
		// A term-level mandatory property needs a parent lemma row even
		// when only the property was flagged required.
		if seedLemma || len(seedTermProps) > 0 {
			items = append(items, &LemmaRow{Lang: l.Code})
			for _, p := range seedTermProps {
				items = append(items, s.propertyRow(props, p.ID, domain.LevelTerm, 0, "", 0, 0, 0))
			}
			items = append(items, &AddPropertyMarker{Level: domain.LevelTerm, Lang: l.Code})
		}
		if s.editing {
			items = append(items, &AddTermMarker{Lang: l.Code})
		}
	}
	return items, nil
}

func (s *Session) propertyRow(props map[int64]*domain.Property, propertyID int64, level domain.PropertyLevel, valueID int64, value string, entryID, languageID, termID int64) *PropertyRow {
	name, typ := resolveProperty(props, propertyID)
	return &PropertyRow{
		PropertyID: propertyID,
		Name:       name,
		Type:       typ,
		Level:      level,
		ValueID:    valueID,
		Value:      value,
		EntryID:    entryID,
		LanguageID: languageID,
		TermID:     termID,
	}
}

func (s *Session) propertyDisplay(props map[int64]*domain.Property, propertyID int64, value string) *PropertyDisplay {
	name, typ := resolveProperty(props, propertyID)
	return &PropertyDisplay{Name: name, Type: typ, Value: value}
}

// resolveProperty renders orphans (values whose property was deleted) with
// an empty name and an untyped text value.
func resolveProperty(props map[int64]*domain.Property, id int64) (string, domain.PropertyType) {
	if p, ok := props[id]; ok {
		return p.Name, p.Type
	}
	return "", domain.TypeText
}

// InsertTermRow splices an empty lemma row for lang at index, together with
// its add-property and add-term affordances.
func (s *Session) InsertTermRow(index int, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	if index < 0 || index > len(s.items) {
		return ErrBadIndex
	}
	s.items = splice(s.items, index,
		&LemmaRow{Lang: lang},
		&AddPropertyMarker{Level: domain.LevelTerm, Lang: lang},
		&AddTermMarker{Lang: lang},
	)
	return nil
}

// RemoveTermRow deletes the lemma row at index and every property row
// positionally scoped beneath it (the contiguous run of term-scoped rows
// that follows, up to the first non-property item). Persisted ids are
// queued for deletion at the next commit.
func (s *Session) RemoveTermRow(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	row, ok := s.itemAt(index).(*LemmaRow)
	if !ok {
		return ErrBadIndex
	}
	if row.TermID > 0 {
		s.delTerms = append(s.delTerms, row.TermID)
	}
	end := index + 1
	for end < len(s.items) {
		switch it := s.items[end].(type) {
		case *PropertyRow:
			if it.Level != domain.LevelTerm {
				goto done
			}
			if it.ValueID > 0 {
				s.delValues = append(s.delValues, valueRef{Level: it.Level, PropertyID: it.PropertyID, ValueID: it.ValueID})
			}
			end++
		case *AddPropertyMarker:
			if it.Level != domain.LevelTerm {
				goto done
			}
			end++
		default:
			goto done
		}
	}
done:
	s.items = append(s.items[:index], s.items[end:]...)
	return nil
}

// InsertPropertyRow splices a property row at index with an explicit scope.
// When a persisted value already exists for that (scope, parent, property)
// it is prefilled, so the row updates rather than duplicates on commit.
func (s *Session) InsertPropertyRow(ctx context.Context, index int, propertyID int64, level domain.PropertyLevel, entryID, languageID, termID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	if index < 0 || index > len(s.items) {
		return ErrBadIndex
	}
	row, err := s.newPropertyRow(ctx, propertyID, level, entryID, languageID, termID)
	if err != nil {
		return err
	}
	s.items = splice(s.items, index, row)
	return nil
}

// AddProperty inserts a property row at the add-property marker at
// markerIndex, inheriting the marker's scope. The marker stays in place,
// ending up after the new row.
func (s *Session) AddProperty(ctx context.Context, markerIndex int, propertyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	m, ok := s.itemAt(markerIndex).(*AddPropertyMarker)
	if !ok {
		return ErrBadIndex
	}
	row, err := s.newPropertyRow(ctx, propertyID, m.Level, m.EntryID, m.LanguageID, m.TermID)
	if err != nil {
		return err
	}
	s.items = splice(s.items, markerIndex, row)
	return nil
}

func (s *Session) newPropertyRow(ctx context.Context, propertyID int64, level domain.PropertyLevel, entryID, languageID, termID int64) (*PropertyRow, error) {
	props, err := s.d.Catalog.PropertyMap(ctx, s.termbaseID)
	if err != nil {
		return nil, err
	}
	row := s.propertyRow(props, propertyID, level, 0, "", entryID, languageID, termID)
	switch level {
	case domain.LevelEntry:
		vals, err := s.d.EntryValues.ListByEntry(ctx, s.entryID)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			if v.PropertyID == propertyID {
				row.ValueID, row.Value = v.ID, v.Value
				break
			}
		}
	case domain.LevelLanguage:
		vals, err := s.d.LanguageValues.ListByEntryLanguage(ctx, s.entryID, languageID)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			if v.PropertyID == propertyID {
				row.ValueID, row.Value = v.ID, v.Value
				break
			}
		}
	case domain.LevelTerm:
		if termID > 0 {
			vals, err := s.d.TermValues.ListByTerm(ctx, termID)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				if v.PropertyID == propertyID {
					row.ValueID, row.Value = v.ID, v.Value
					break
				}
			}
		}
	}
	return row, nil
}

// RemovePropertyRow deletes the property row at index, queueing its
// persisted value for deletion at the next commit.
func (s *Session) RemovePropertyRow(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	row, ok := s.itemAt(index).(*PropertyRow)
	if !ok {
		return ErrBadIndex
	}
	if row.ValueID > 0 {
		s.delValues = append(s.delValues, valueRef{Level: row.Level, PropertyID: row.PropertyID, ValueID: row.ValueID})
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// SetLemma replaces the lemma text of the row at index in place.
func (s *Session) SetLemma(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	row, ok := s.itemAt(index).(*LemmaRow)
	if !ok {
		return ErrBadIndex
	}
	row.Lemma = text
	return nil
}

// SetValue replaces the value text of the property row at index in place.
func (s *Session) SetValue(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	row, ok := s.itemAt(index).(*PropertyRow)
	if !ok {
		return ErrBadIndex
	}
	row.Value = text
	return nil
}

// AvailableProperties lists the properties the add-property marker at
// markerIndex can still add: all properties of the marker's level not
// already present among the contiguous rows of that scope.
func (s *Session) AvailableProperties(ctx context.Context, markerIndex int) ([]*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.itemAt(markerIndex).(*AddPropertyMarker)
	if !ok {
		return nil, ErrBadIndex
	}
	present := map[int64]bool{}
	for i := markerIndex - 1; i >= 0; i-- {
		row, ok := s.items[i].(*PropertyRow)
		if !ok || row.Level != m.Level {
			break
		}
		present[row.PropertyID] = true
	}
	props, err := s.d.Catalog.PropertiesOf(ctx, s.termbaseID)
	if err != nil {
		return nil, err
	}
	var out []*domain.Property
	for _, p := range props {
		if p.Level == m.Level && !present[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Session) itemAt(index int) LineItem {
	if index < 0 || index >= len(s.items) {
		return nil
	}
	return s.items[index]
}

func splice(items []LineItem, index int, ins ...LineItem) []LineItem {
	out := make([]LineItem, 0, len(items)+len(ins))
	out = append(out, items[:index]...)
	out = append(out, ins...)
	out = append(out, items[index:]...)
	return out
}
