package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"glossa/internal/domain"
	"glossa/internal/ports"
)

// SearchRepo compiles criteria lists into a single SELECT over the
// term/entry/value join shape and answers the browsing count queries.
type SearchRepo struct{ *Repo }

func NewSearchRepo(db *sql.DB) *SearchRepo { return &SearchRepo{NewRepo(db)} }

var _ ports.TermSearcher = (*SearchRepo)(nil)

// Match returns the terms of the termbase in mainLang satisfying every
// criterion. Criteria are ANDed; the descriptors inside one criterion are
// ORed. DISTINCT keeps the result term-unique even when a criterion matches
// through more than one join path.
func (r *SearchRepo) Match(ctx context.Context, termbaseID int64, mainLang string, criteria []domain.SearchCriterion) ([]*domain.Term, error) {
	q := r.SQ.Select("t.id", "t.entry_id", "t.lang", "t.lemma").
		Options("DISTINCT").
		From("terms t").
		Join("entries e ON e.id = t.entry_id").
		Where(sq.Eq{"e.termbase_id": termbaseID, "t.lang": mainLang}).
		OrderBy("t.lemma", "t.id")
	for _, c := range criteria {
		pred, ok := compileCriterion(c, mainLang)
		if !ok {
			continue
		}
		q = q.Where(pred)
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build match query: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	defer rows.Close()
	var out []*domain.Term
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.ID, &t.EntryID, &t.Lang, &t.Lemma); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// compileCriterion turns one criterion into an OR of per-descriptor
// predicates. It reports false when the criterion imposes no constraint:
// empty descriptor list, empty exact text, or every descriptor skipped
// because its language is neither empty nor the main language.
func compileCriterion(c domain.SearchCriterion, mainLang string) (sq.Sqlizer, bool) {
	if c.Kind == domain.MatchExact && c.Text == "" {
		return nil, false
	}
	var or sq.Or
	for _, d := range c.Descriptors {
		switch {
		case d.Lemma:
			or = append(or, lemmaPredicate(c, d))
		case d.Lang == "":
			or = append(or, entryValuePredicate(c, d))
		case d.Lang == mainLang:
			// The same property may live on the entry's language row or on
			// the term itself: either placement satisfies the descriptor.
			or = append(or, languageValuePredicate(c, d), termValuePredicate(c, d))
		default:
			// Filters are defined per main language only.
		}
	}
	if len(or) == 0 {
		return nil, false
	}
	return or, true
}

// valueTest renders the text test for one value column. An empty fuzzy text
// is the existence-only case: the row must exist but its text is free.
// instr() rather than LIKE keeps containment case-sensitive.
func valueTest(c domain.SearchCriterion, column string) (string, []any) {
	switch {
	case c.Kind == domain.MatchExact:
		return fmt.Sprintf(" AND %s = ?", column), []any{c.Text}
	case c.Text != "":
		return fmt.Sprintf(" AND instr(%s, ?) > 0", column), []any{c.Text}
	default:
		return "", nil
	}
}

func lemmaPredicate(c domain.SearchCriterion, d domain.MatchDescriptor) sq.Sqlizer {
	switch {
	case c.Kind == domain.MatchExact:
		return sq.And{sq.Eq{"t.lang": d.Lang}, sq.Eq{"t.lemma": c.Text}}
	case c.Text != "":
		return sq.And{sq.Eq{"t.lang": d.Lang}, sq.Expr("instr(t.lemma, ?) > 0", c.Text)}
	default:
		return sq.Eq{"t.lang": d.Lang}
	}
}

func entryValuePredicate(c domain.SearchCriterion, d domain.MatchDescriptor) sq.Sqlizer {
	test, testArgs := valueTest(c, "ev.value")
	args := append([]any{d.PropertyID}, testArgs...)
	return sq.Expr(`EXISTS (SELECT 1 FROM entry_values ev
		WHERE ev.entry_id = e.id AND ev.property_id = ?`+test+`)`, args...)
}

func languageValuePredicate(c domain.SearchCriterion, d domain.MatchDescriptor) sq.Sqlizer {
	test, testArgs := valueTest(c, "lv.value")
	args := append([]any{d.Lang, d.PropertyID}, testArgs...)
	return sq.Expr(`EXISTS (SELECT 1 FROM language_values lv
		JOIN languages l ON l.id = lv.language_id
		WHERE lv.entry_id = e.id AND l.code = ? AND lv.property_id = ?`+test+`)`, args...)
}

func termValuePredicate(c domain.SearchCriterion, d domain.MatchDescriptor) sq.Sqlizer {
	test, testArgs := valueTest(c, "tv.value")
	args := append([]any{d.Lang, d.PropertyID}, testArgs...)
	return sq.Expr(`EXISTS (SELECT 1 FROM term_values tv
		JOIN terms t2 ON t2.id = tv.term_id
		WHERE t2.entry_id = e.id AND t2.lang = ? AND tv.property_id = ?`+test+`)`, args...)
}

func (r *SearchRepo) Stats(ctx context.Context, termbaseID int64) (*ports.TermbaseStats, error) {
	st := &ports.TermbaseStats{
		TermsPerLanguage:    map[string]int{},
		CompletePerLanguage: map[string]int{},
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE termbase_id = ?`, termbaseID).Scan(&st.Entries); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM terms t JOIN entries e ON e.id = t.entry_id
		 WHERE e.termbase_id = ?`, termbaseID).Scan(&st.Terms); err != nil {
		return nil, fmt.Errorf("count terms: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.lang, COUNT(*), COUNT(DISTINCT t.entry_id)
		 FROM terms t JOIN entries e ON e.id = t.entry_id
		 WHERE e.termbase_id = ? GROUP BY t.lang`, termbaseID)
	if err != nil {
		return nil, fmt.Errorf("count per language: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var terms, complete int
		if err := rows.Scan(&lang, &terms, &complete); err != nil {
			return nil, err
		}
		st.TermsPerLanguage[lang] = terms
		st.CompletePerLanguage[lang] = complete
	}
	return st, rows.Err()
}
