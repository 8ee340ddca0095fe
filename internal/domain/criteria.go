package domain

// MatchKind discriminates the two text tests a criterion can apply.
type MatchKind int

const (
	// MatchFuzzy is case-sensitive substring containment. Empty text is the
	// "searchable, no constraint yet" case: the criterion selects by the
	// existence of its descriptors' rows without filtering their text.
	MatchFuzzy MatchKind = iota
	// MatchExact is exact string equality.
	MatchExact
)

// MatchDescriptor identifies one field a criterion may match against:
// either the lemma in language Lang, or property PropertyID in language
// Lang (Lang empty for entry-level properties).
type MatchDescriptor struct {
	Lemma      bool   `json:"lemma,omitempty"`
	PropertyID int64  `json:"property_id,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

// SearchCriterion is one clause of a filter. Criteria in a list are ANDed;
// the descriptors within one criterion are ORed.
type SearchCriterion struct {
	Kind        MatchKind         `json:"kind"`
	Text        string            `json:"text"`
	Descriptors []MatchDescriptor `json:"matching"`
}
