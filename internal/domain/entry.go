package domain

// Entry groups the terms for one concept across languages. An entry may
// transiently own zero terms, right after creation.
type Entry struct {
	ID         int64 `json:"id"`
	TermbaseID int64 `json:"termbase_id"`
}

// Term is one language's rendering of an entry.
type Term struct {
	ID      int64  `json:"id"`
	EntryID int64  `json:"entry_id"`
	Lang    string `json:"lang"`
	Lemma   string `json:"lemma"`
}
