package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"glossa/internal/domain"
)

type PropertyRepo struct{ *Repo }
type InputDescriptorRepo struct{ *Repo }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{NewRepo(db)} }
func NewInputDescriptorRepo(db *sql.DB) *InputDescriptorRepo {
	return &InputDescriptorRepo{NewRepo(db)}
}

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO properties (termbase_id, name, level, type) VALUES (?, ?, ?, ?)`,
			p.TermbaseID, p.Name, int(p.Level), int(p.Type))
		if err != nil {
			return fmt.Errorf("insert property: %w", err)
		}
		p.ID, _ = res.LastInsertId()
		return insertChoices(ctx, tx, p.ID, p.Choices)
	})
}

func (r *PropertyRepo) Get(ctx context.Context, id int64) (*domain.Property, error) {
	q := r.SQ.Select("id", "termbase_id", "name", "level", "type").
		From("properties").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	var p domain.Property
	var level, typ int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&p.ID, &p.TermbaseID, &p.Name, &level, &typ); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Level = domain.PropertyLevel(level)
	p.Type = domain.PropertyType(typ)
	if p.Type == domain.TypePicklist {
		choices, err := r.listChoices(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Choices = choices
	}
	return &p, nil
}

func (r *PropertyRepo) ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Property, error) {
	q := r.SQ.Select("id", "termbase_id", "name", "level", "type").
		From("properties").Where(sq.Eq{"termbase_id": termbaseID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Property
	for rows.Next() {
		var p domain.Property
		var level, typ int
		if err := rows.Scan(&p.ID, &p.TermbaseID, &p.Name, &level, &typ); err != nil {
			return nil, err
		}
		p.Level = domain.PropertyLevel(level)
		p.Type = domain.PropertyType(typ)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range out {
		if p.Type != domain.TypePicklist {
			continue
		}
		choices, err := r.listChoices(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Choices = choices
	}
	return out, nil
}

func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE properties SET name = ?, level = ?, type = ? WHERE id = ?`,
			p.Name, int(p.Level), int(p.Type), p.ID); err != nil {
			return fmt.Errorf("update property: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM property_choices WHERE property_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clear choices: %w", err)
		}
		return insertChoices(ctx, tx, p.ID, p.Choices)
	})
}

// HasValues reports whether any value at any scope still references the
// property.
func (r *PropertyRepo) HasValues(ctx context.Context, propertyID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM entry_values WHERE property_id = ?) +
		(SELECT COUNT(*) FROM language_values WHERE property_id = ?) +
		(SELECT COUNT(*) FROM term_values WHERE property_id = ?)`,
		propertyID, propertyID, propertyID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count property values: %w", err)
	}
	return n > 0, nil
}

// Delete removes the property and its choices only. Values referencing the
// property are left behind and render with an empty name.
func (r *PropertyRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("properties").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PropertyRepo) listChoices(ctx context.Context, propertyID int64) ([]string, error) {
	q := r.SQ.Select("value").From("property_choices").
		Where(sq.Eq{"property_id": propertyID}).OrderBy("position")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func insertChoices(ctx context.Context, tx *sql.Tx, propertyID int64, choices []string) error {
	for i, c := range choices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_choices (property_id, position, value) VALUES (?, ?, ?)`,
			propertyID, i, c); err != nil {
			return fmt.Errorf("insert choice: %w", err)
		}
	}
	return nil
}

func (r *InputDescriptorRepo) Create(ctx context.Context, d *domain.InputDescriptor) error {
	q := r.SQ.Insert("input_descriptors").Columns("termbase_id", "property_id", "language_id").
		Values(d.TermbaseID, d.PropertyID, d.LanguageID).
		Suffix("ON CONFLICT(termbase_id, property_id, language_id) DO NOTHING")
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("insert input descriptor: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		d.ID, _ = res.LastInsertId()
	}
	return nil
}

func (r *InputDescriptorRepo) ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.InputDescriptor, error) {
	q := r.SQ.Select("id", "termbase_id", "property_id", "language_id").
		From("input_descriptors").Where(sq.Eq{"termbase_id": termbaseID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.InputDescriptor
	for rows.Next() {
		var d domain.InputDescriptor
		if err := rows.Scan(&d.ID, &d.TermbaseID, &d.PropertyID, &d.LanguageID); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *InputDescriptorRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("input_descriptors").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
