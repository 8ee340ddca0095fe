package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"glossa/internal/domain"
)

type EntryValueRepo struct{ *Repo }
type LanguageValueRepo struct{ *Repo }
type TermValueRepo struct{ *Repo }

func NewEntryValueRepo(db *sql.DB) *EntryValueRepo       { return &EntryValueRepo{NewRepo(db)} }
func NewLanguageValueRepo(db *sql.DB) *LanguageValueRepo { return &LanguageValueRepo{NewRepo(db)} }
func NewTermValueRepo(db *sql.DB) *TermValueRepo         { return &TermValueRepo{NewRepo(db)} }

func (r *EntryValueRepo) Create(ctx context.Context, v *domain.EntryValue) error {
	q := r.SQ.Insert("entry_values").Columns("entry_id", "property_id", "value").
		Values(v.EntryID, v.PropertyID, v.Value)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert entry value: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

func (r *EntryValueRepo) Get(ctx context.Context, id int64) (*domain.EntryValue, error) {
	q := r.SQ.Select("id", "entry_id", "property_id", "value").
		From("entry_values").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var v domain.EntryValue
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&v.ID, &v.EntryID, &v.PropertyID, &v.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *EntryValueRepo) ListByEntry(ctx context.Context, entryID int64) ([]*domain.EntryValue, error) {
	q := r.SQ.Select("id", "entry_id", "property_id", "value").
		From("entry_values").Where(sq.Eq{"entry_id": entryID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EntryValue
	for rows.Next() {
		var v domain.EntryValue
		if err := rows.Scan(&v.ID, &v.EntryID, &v.PropertyID, &v.Value); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *EntryValueRepo) Update(ctx context.Context, v *domain.EntryValue) error {
	q := r.SQ.Update("entry_values").Set("value", v.Value).Where(sq.Eq{"id": v.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *EntryValueRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("entry_values").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *LanguageValueRepo) Create(ctx context.Context, v *domain.LanguageValue) error {
	q := r.SQ.Insert("language_values").Columns("entry_id", "language_id", "property_id", "value").
		Values(v.EntryID, v.LanguageID, v.PropertyID, v.Value)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert language value: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

func (r *LanguageValueRepo) Get(ctx context.Context, id int64) (*domain.LanguageValue, error) {
	q := r.SQ.Select("id", "entry_id", "language_id", "property_id", "value").
		From("language_values").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var v domain.LanguageValue
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&v.ID, &v.EntryID, &v.LanguageID, &v.PropertyID, &v.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *LanguageValueRepo) ListByEntryLanguage(ctx context.Context, entryID, languageID int64) ([]*domain.LanguageValue, error) {
	q := r.SQ.Select("id", "entry_id", "language_id", "property_id", "value").
		From("language_values").
		Where(sq.Eq{"entry_id": entryID, "language_id": languageID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.LanguageValue
	for rows.Next() {
		var v domain.LanguageValue
		if err := rows.Scan(&v.ID, &v.EntryID, &v.LanguageID, &v.PropertyID, &v.Value); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *LanguageValueRepo) Update(ctx context.Context, v *domain.LanguageValue) error {
	q := r.SQ.Update("language_values").Set("value", v.Value).Where(sq.Eq{"id": v.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *LanguageValueRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("language_values").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TermValueRepo) Create(ctx context.Context, v *domain.TermValue) error {
	q := r.SQ.Insert("term_values").Columns("term_id", "property_id", "value").
		Values(v.TermID, v.PropertyID, v.Value)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert term value: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

func (r *TermValueRepo) Get(ctx context.Context, id int64) (*domain.TermValue, error) {
	q := r.SQ.Select("id", "term_id", "property_id", "value").
		From("term_values").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var v domain.TermValue
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&v.ID, &v.TermID, &v.PropertyID, &v.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *TermValueRepo) ListByTerm(ctx context.Context, termID int64) ([]*domain.TermValue, error) {
	q := r.SQ.Select("id", "term_id", "property_id", "value").
		From("term_values").Where(sq.Eq{"term_id": termID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.TermValue
	for rows.Next() {
		var v domain.TermValue
		if err := rows.Scan(&v.ID, &v.TermID, &v.PropertyID, &v.Value); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *TermValueRepo) Update(ctx context.Context, v *domain.TermValue) error {
	q := r.SQ.Update("term_values").Set("value", v.Value).Where(sq.Eq{"id": v.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TermValueRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("term_values").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
