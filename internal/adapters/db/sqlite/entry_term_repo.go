package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"glossa/internal/domain"
)

type EntryRepo struct{ *Repo }
type TermRepo struct{ *Repo }

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{NewRepo(db)} }
func NewTermRepo(db *sql.DB) *TermRepo   { return &TermRepo{NewRepo(db)} }

func (r *EntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	q := r.SQ.Insert("entries").Columns("termbase_id").Values(e.TermbaseID)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

func (r *EntryRepo) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	q := r.SQ.Select("id", "termbase_id").From("entries").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var e domain.Entry
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&e.ID, &e.TermbaseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepo) ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Entry, error) {
	q := r.SQ.Select("id", "termbase_id").From("entries").
		Where(sq.Eq{"termbase_id": termbaseID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.TermbaseID); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Delete cascades to terms and to all three value scopes via foreign keys.
func (r *EntryRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("entries").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TermRepo) Create(ctx context.Context, t *domain.Term) error {
	q := r.SQ.Insert("terms").Columns("entry_id", "lang", "lemma").
		Values(t.EntryID, t.Lang, t.Lemma)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert term: %w", err)
	}
	t.ID, _ = res.LastInsertId()
	return nil
}

func (r *TermRepo) Get(ctx context.Context, id int64) (*domain.Term, error) {
	q := r.SQ.Select("id", "entry_id", "lang", "lemma").From("terms").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var t domain.Term
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&t.ID, &t.EntryID, &t.Lang, &t.Lemma); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TermRepo) ListByEntry(ctx context.Context, entryID int64) ([]*domain.Term, error) {
	return r.list(ctx, sq.Eq{"entry_id": entryID})
}

func (r *TermRepo) ListByEntryLang(ctx context.Context, entryID int64, lang string) ([]*domain.Term, error) {
	return r.list(ctx, sq.Eq{"entry_id": entryID, "lang": lang})
}

func (r *TermRepo) list(ctx context.Context, where sq.Eq) ([]*domain.Term, error) {
	q := r.SQ.Select("id", "entry_id", "lang", "lemma").From("terms").Where(where).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
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

func (r *TermRepo) Update(ctx context.Context, t *domain.Term) error {
	q := r.SQ.Update("terms").
		Set("lang", t.Lang).
		Set("lemma", t.Lemma).
		Where(sq.Eq{"id": t.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// Delete cascades to the term's values via foreign keys.
func (r *TermRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("terms").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
