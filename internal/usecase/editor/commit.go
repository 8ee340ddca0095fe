package editor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"glossa/internal/domain"
	"glossa/internal/ports"
)

// Commit replays the line-item list against the store in one top-to-bottom
// walk. A running lastTermID resolves term-scoped property rows that have
// no parent id yet because the term row above them is itself new: the walk
// order guarantees the term is created first. Rows are held by pointer, so
// freshly minted ids land in the list as the walk goes, without a reload.
//
// The pending deletion queues are processed after the walk and cleared only
// once their deletes succeeded; a failed commit leaves them intact so the
// next save retries them. No cross-row transaction is assumed: earlier
// upserts of a failed commit stay.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	props, err := s.d.Catalog.PropertyMap(ctx, s.termbaseID)
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}

	var lastTermID int64
	for _, it := range s.items {
		switch row := it.(type) {
		case *LemmaRow:
			if strings.TrimSpace(row.Lemma) == "" {
				// Emptying a lemma is a deletion request; property rows
				// beneath it lose their positional parent.
				if row.TermID > 0 {
					s.delTerms = append(s.delTerms, row.TermID)
					row.TermID = 0
				}
				lastTermID = 0
				continue
			}
			if row.TermID == 0 {
				t := domain.Term{EntryID: s.entryID, Lang: row.Lang, Lemma: row.Lemma}
				if err := s.d.Terms.Create(ctx, &t); err != nil {
					return fmt.Errorf("create term: %w", err)
				}
				row.TermID = t.ID
			} else {
				t := domain.Term{ID: row.TermID, EntryID: s.entryID, Lang: row.Lang, Lemma: row.Lemma}
				if err := s.d.Terms.Update(ctx, &t); err != nil {
					return fmt.Errorf("update term: %w", err)
				}
			}
			lastTermID = row.TermID
		case *PropertyRow:
			if err := s.commitPropertyRow(ctx, props, row, lastTermID); err != nil {
				return err
			}
		}
	}

	for _, id := range s.delTerms {
		if err := s.d.Terms.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete term %d: %w", id, err)
		}
	}
	s.delTerms = nil
	for _, ref := range s.delValues {
		if err := s.deleteValue(ctx, props, ref); err != nil {
			return err
		}
	}
	s.delValues = nil

	if s.d.Events != nil {
		s.d.Events.Emit(ports.EventEntrySaved, s.entryID)
	}
	return nil
}

func (s *Session) commitPropertyRow(ctx context.Context, props map[int64]*domain.Property, row *PropertyRow, lastTermID int64) error {
	parent := int64(0)
	switch row.Level {
	case domain.LevelEntry:
		if row.EntryID == 0 {
			row.EntryID = s.entryID
		}
		parent = row.EntryID
	case domain.LevelLanguage:
		parent = row.LanguageID
	case domain.LevelTerm:
		parent = row.TermID
		if parent == 0 {
			parent = lastTermID
		}
	}

	// An empty value, or a row whose parent never materialized, means the
	// value must not exist.
	if strings.TrimSpace(row.Value) == "" || parent == 0 {
		if row.ValueID > 0 {
			s.delValues = append(s.delValues, valueRef{Level: row.Level, PropertyID: row.PropertyID, ValueID: row.ValueID})
			row.ValueID = 0
		}
		return nil
	}

	if p, ok := props[row.PropertyID]; ok && p.Type == domain.TypeImage {
		s.stageImage(ctx, row)
	}

	switch row.Level {
	case domain.LevelEntry:
		if row.ValueID == 0 {
			v := domain.EntryValue{EntryID: parent, PropertyID: row.PropertyID, Value: row.Value}
			if err := s.d.EntryValues.Create(ctx, &v); err != nil {
				return fmt.Errorf("create entry value: %w", err)
			}
			row.ValueID = v.ID
			return nil
		}
		v := domain.EntryValue{ID: row.ValueID, EntryID: parent, PropertyID: row.PropertyID, Value: row.Value}
		if err := s.d.EntryValues.Update(ctx, &v); err != nil {
			return fmt.Errorf("update entry value: %w", err)
		}
	case domain.LevelLanguage:
		if row.ValueID == 0 {
			v := domain.LanguageValue{EntryID: s.entryID, LanguageID: parent, PropertyID: row.PropertyID, Value: row.Value}
			if err := s.d.LanguageValues.Create(ctx, &v); err != nil {
				return fmt.Errorf("create language value: %w", err)
			}
			row.ValueID = v.ID
			return nil
		}
		v := domain.LanguageValue{ID: row.ValueID, EntryID: s.entryID, LanguageID: parent, PropertyID: row.PropertyID, Value: row.Value}
		if err := s.d.LanguageValues.Update(ctx, &v); err != nil {
			return fmt.Errorf("update language value: %w", err)
		}
	case domain.LevelTerm:
		if row.ValueID == 0 {
			v := domain.TermValue{TermID: parent, PropertyID: row.PropertyID, Value: row.Value}
			if err := s.d.TermValues.Create(ctx, &v); err != nil {
				return fmt.Errorf("create term value: %w", err)
			}
			row.TermID = parent
			row.ValueID = v.ID
			return nil
		}
		v := domain.TermValue{ID: row.ValueID, TermID: parent, PropertyID: row.PropertyID, Value: row.Value}
		if err := s.d.TermValues.Update(ctx, &v); err != nil {
			return fmt.Errorf("update term value: %w", err)
		}
	}
	return nil
}

// stageImage copies a changed IMAGE value into termbase-owned storage and
// drops the previous backing file. Both steps are best-effort: an import
// failure keeps the original source path as the stored value, a remove
// failure never blocks the update.
func (s *Session) stageImage(ctx context.Context, row *PropertyRow) {
	if s.d.Media == nil {
		return
	}
	old := s.storedImagePath(ctx, row)
	if old == row.Value {
		return
	}
	stored, err := s.d.Media.Import(ctx, s.termbaseID, row.Value)
	if err != nil {
		s.d.Log.Warn("image import failed, keeping source path",
			zap.String("src", row.Value), zap.Error(err))
	} else {
		row.Value = stored
	}
	if old != "" {
		if err := s.d.Media.Remove(old); err != nil {
			s.d.Log.Warn("stale image not removed", zap.String("path", old), zap.Error(err))
		}
	}
}

func (s *Session) storedImagePath(ctx context.Context, row *PropertyRow) string {
	if row.ValueID == 0 {
		return ""
	}
	switch row.Level {
	case domain.LevelEntry:
		if v, err := s.d.EntryValues.Get(ctx, row.ValueID); err == nil && v != nil {
			return v.Value
		}
	case domain.LevelLanguage:
		if v, err := s.d.LanguageValues.Get(ctx, row.ValueID); err == nil && v != nil {
			return v.Value
		}
	case domain.LevelTerm:
		if v, err := s.d.TermValues.Get(ctx, row.ValueID); err == nil && v != nil {
			return v.Value
		}
	}
	return ""
}

func (s *Session) deleteValue(ctx context.Context, props map[int64]*domain.Property, ref valueRef) error {
	if p, ok := props[ref.PropertyID]; ok && p.Type == domain.TypeImage && s.d.Media != nil {
		path := s.storedImagePath(ctx, &PropertyRow{Level: ref.Level, ValueID: ref.ValueID})
		if path != "" {
			if err := s.d.Media.Remove(path); err != nil {
				s.d.Log.Warn("image not removed", zap.String("path", path), zap.Error(err))
			}
		}
	}
	switch ref.Level {
	case domain.LevelEntry:
		if err := s.d.EntryValues.Delete(ctx, ref.ValueID); err != nil {
			return fmt.Errorf("delete entry value %d: %w", ref.ValueID, err)
		}
	case domain.LevelLanguage:
		if err := s.d.LanguageValues.Delete(ctx, ref.ValueID); err != nil {
			return fmt.Errorf("delete language value %d: %w", ref.ValueID, err)
		}
	case domain.LevelTerm:
		if err := s.d.TermValues.Delete(ctx, ref.ValueID); err != nil {
			return fmt.Errorf("delete term value %d: %w", ref.ValueID, err)
		}
	}
	return nil
}
