package domain

// EntryValue is an entry-scoped property value.
type EntryValue struct {
	ID         int64  `json:"id"`
	EntryID    int64  `json:"entry_id"`
	PropertyID int64  `json:"property_id"`
	Value      string `json:"value"`
}

// LanguageValue is a property value of an entry in one language, independent
// of which term rows exist for that language.
type LanguageValue struct {
	ID         int64  `json:"id"`
	EntryID    int64  `json:"entry_id"`
	LanguageID int64  `json:"language_id"`
	PropertyID int64  `json:"property_id"`
	Value      string `json:"value"`
}

// TermValue is a term-scoped property value.
type TermValue struct {
	ID         int64  `json:"id"`
	TermID     int64  `json:"term_id"`
	PropertyID int64  `json:"property_id"`
	Value      string `json:"value"`
}
