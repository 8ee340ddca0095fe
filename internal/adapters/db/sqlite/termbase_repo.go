package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"glossa/internal/domain"
)

type TermbaseRepo struct{ *Repo }
type LanguageRepo struct{ *Repo }

func NewTermbaseRepo(db *sql.DB) *TermbaseRepo { return &TermbaseRepo{NewRepo(db)} }
func NewLanguageRepo(db *sql.DB) *LanguageRepo { return &LanguageRepo{NewRepo(db)} }

func (r *TermbaseRepo) Create(ctx context.Context, tb *domain.Termbase) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("termbases").Columns("name", "description", "created_at", "updated_at").
		Values(tb.Name, tb.Description, now, now)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert termbase: %w", err)
	}
	tb.ID, _ = res.LastInsertId()
	return nil
}

func (r *TermbaseRepo) Get(ctx context.Context, id int64) (*domain.Termbase, error) {
	q := r.SQ.Select("id", "name", "description", "created_at", "updated_at").
		From("termbases").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	return scanTermbase(r.DB.QueryRowContext(ctx, sqlStr, args...))
}

func (r *TermbaseRepo) List(ctx context.Context) ([]*domain.Termbase, error) {
	q := r.SQ.Select("id", "name", "description", "created_at", "updated_at").
		From("termbases").OrderBy("name")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Termbase
	for rows.Next() {
		var tb domain.Termbase
		var created, updated string
		if err := rows.Scan(&tb.ID, &tb.Name, &tb.Description, &created, &updated); err != nil {
			return nil, err
		}
		tb.CreatedAt, _ = time.Parse(time.RFC3339, created)
		tb.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, &tb)
	}
	return out, rows.Err()
}

func (r *TermbaseRepo) Update(ctx context.Context, tb *domain.Termbase) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("termbases").
		Set("name", tb.Name).
		Set("description", tb.Description).
		Set("updated_at", now).
		Where(sq.Eq{"id": tb.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// Delete relies on the schema's foreign keys: languages, properties,
// descriptors, entries and everything beneath them go with the termbase.
func (r *TermbaseRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("termbases").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanTermbase(row *sql.Row) (*domain.Termbase, error) {
	var tb domain.Termbase
	var created, updated string
	if err := row.Scan(&tb.ID, &tb.Name, &tb.Description, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	tb.CreatedAt, _ = time.Parse(time.RFC3339, created)
	tb.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &tb, nil
}

func (r *LanguageRepo) Create(ctx context.Context, l *domain.Language) error {
	q := r.SQ.Insert("languages").Columns("termbase_id", "code").
		Values(l.TermbaseID, l.Code).
		Suffix("ON CONFLICT(termbase_id, code) DO NOTHING")
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert language: %w", err)
	}
	if id, _ := res.LastInsertId(); id > 0 {
		if n, _ := res.RowsAffected(); n > 0 {
			l.ID = id
			return nil
		}
	}
	// Conflicting insert: fetch the existing row's id.
	existing, err := r.GetByCode(ctx, l.TermbaseID, l.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		l.ID = existing.ID
	}
	return nil
}

func (r *LanguageRepo) Get(ctx context.Context, id int64) (*domain.Language, error) {
	q := r.SQ.Select("id", "termbase_id", "code").From("languages").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var l domain.Language
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&l.ID, &l.TermbaseID, &l.Code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LanguageRepo) GetByCode(ctx context.Context, termbaseID int64, code string) (*domain.Language, error) {
	q := r.SQ.Select("id", "termbase_id", "code").From("languages").
		Where(sq.Eq{"termbase_id": termbaseID, "code": code}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var l domain.Language
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&l.ID, &l.TermbaseID, &l.Code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LanguageRepo) ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Language, error) {
	q := r.SQ.Select("id", "termbase_id", "code").From("languages").
		Where(sq.Eq{"termbase_id": termbaseID}).OrderBy("code")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Language
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.ID, &l.TermbaseID, &l.Code); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Delete removes the language and cascades by hand: term-scoped values of
// terms in that language, language-scoped values keyed by the language, the
// terms themselves, and finally any entry of the termbase left without a
// single term in any language.
func (r *LanguageRepo) Delete(ctx context.Context, id int64) error {
	lang, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if lang == nil {
		return nil
	}
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM term_values WHERE term_id IN (
			SELECT t.id FROM terms t JOIN entries e ON e.id = t.entry_id
			WHERE e.termbase_id = ? AND t.lang = ?)`, lang.TermbaseID, lang.Code); err != nil {
			return fmt.Errorf("delete term values: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM language_values WHERE language_id = ?`, id); err != nil {
			return fmt.Errorf("delete language values: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM terms WHERE lang = ? AND entry_id IN (
			SELECT id FROM entries WHERE termbase_id = ?)`, lang.Code, lang.TermbaseID); err != nil {
			return fmt.Errorf("delete terms: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM input_descriptors WHERE language_id = ?`, id); err != nil {
			return fmt.Errorf("delete input descriptors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM languages WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete language: %w", err)
		}
		// An entry with no terms left in any language is not a valid
		// standalone object.
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE termbase_id = ?
			AND id NOT IN (SELECT DISTINCT entry_id FROM terms)`, lang.TermbaseID); err != nil {
			return fmt.Errorf("delete empty entries: %w", err)
		}
		return nil
	})
}
