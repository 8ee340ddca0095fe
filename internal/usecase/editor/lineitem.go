package editor

import "glossa/internal/domain"

// LineItem is one row of the flattened entry tree the editor operates on.
// The set of implementations is closed: every consumer switches over all of
// them. Rows that persist (*LemmaRow, *PropertyRow) are held by pointer so
// a commit can patch freshly minted ids into the list in place.
type LineItem interface {
	isLineItem()
}

// EntryHeader opens the list.
type EntryHeader struct {
	EntryID int64
}

// LanguageHeader opens one language's section.
type LanguageHeader struct {
	Language domain.Language
}

// LemmaRow is an editable term. TermID 0 means not yet persisted.
type LemmaRow struct {
	TermID int64
	Lang   string
	Lemma  string
}

// PropertyRow is an editable property value at one of the three scopes.
// Level tells which parent field is meaningful; a term-scoped row under a
// not-yet-saved term carries TermID 0 and resolves its parent positionally
// at commit time. Name and Type come from the schema catalog and are empty/
// text for orphaned values.
type PropertyRow struct {
	PropertyID int64
	Name       string
	Type       domain.PropertyType
	Level      domain.PropertyLevel
	ValueID    int64
	Value      string

	EntryID    int64
	LanguageID int64
	TermID     int64
}

// AddTermMarker is the non-persisted "add a term here" affordance.
type AddTermMarker struct {
	Lang string
}

// AddPropertyMarker is the non-persisted "add a property here" affordance.
// Its parent fields mirror PropertyRow's.
type AddPropertyMarker struct {
	Level      domain.PropertyLevel
	EntryID    int64
	LanguageID int64
	TermID     int64
	Lang       string
}

// TermDisplay and PropertyDisplay are the read-only rendering of a term and
// a property value, used while the session is in viewing mode.
type TermDisplay struct {
	Term domain.Term
}

type PropertyDisplay struct {
	Name  string
	Type  domain.PropertyType
	Value string
}

func (*EntryHeader) isLineItem()       {}
func (*LanguageHeader) isLineItem()    {}
func (*LemmaRow) isLineItem()          {}
func (*PropertyRow) isLineItem()       {}
func (*AddTermMarker) isLineItem()     {}
func (*AddPropertyMarker) isLineItem() {}
func (*TermDisplay) isLineItem()       {}
func (*PropertyDisplay) isLineItem()   {}
