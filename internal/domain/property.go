package domain

// PropertyLevel is the scope a property's values attach to.
type PropertyLevel int

const (
	LevelEntry PropertyLevel = iota
	LevelLanguage
	LevelTerm
)

func (l PropertyLevel) String() string {
	switch l {
	case LevelEntry:
		return "entry"
	case LevelLanguage:
		return "language"
	case LevelTerm:
		return "term"
	default:
		return "unknown"
	}
}

// PropertyType is the value type of a property.
type PropertyType int

const (
	TypeText PropertyType = iota
	TypePicklist
	TypeImage
)

func (t PropertyType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypePicklist:
		return "picklist"
	case TypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// Property is a user-defined attribute schema for a termbase. Choices is
// populated (ordered) only when Type is TypePicklist.
type Property struct {
	ID         int64         `json:"id"`
	TermbaseID int64         `json:"termbase_id"`
	Name       string        `json:"name"`
	Level      PropertyLevel `json:"level"`
	Type       PropertyType  `json:"type"`
	Choices    []string      `json:"choices,omitempty"`
}

// InputDescriptor marks a field as required when creating a new entry.
// PropertyID 0 means the lemma of the language; otherwise the property with
// that id. LanguageID is 0 for entry-level properties.
type InputDescriptor struct {
	ID         int64 `json:"id"`
	TermbaseID int64 `json:"termbase_id"`
	PropertyID int64 `json:"property_id"`
	LanguageID int64 `json:"language_id"`
}

// Lemma reports whether the descriptor targets a language's lemma rather
// than a property.
func (d InputDescriptor) Lemma() bool { return d.PropertyID == 0 }
