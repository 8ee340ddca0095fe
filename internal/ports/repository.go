package ports

import (
	"context"

	"glossa/internal/domain"
)

// Absent rows are reported as (nil, nil) by every Get: callers render empty
// or skip rather than fail a whole reload.

type TermbaseRepository interface {
	Create(ctx context.Context, tb *domain.Termbase) error
	Get(ctx context.Context, id int64) (*domain.Termbase, error)
	List(ctx context.Context) ([]*domain.Termbase, error)
	Update(ctx context.Context, tb *domain.Termbase) error
	// Delete cascades to every language, entry, term and value beneath the
	// termbase, and to its properties and input descriptors.
	Delete(ctx context.Context, id int64) error
}

type LanguageRepository interface {
	Create(ctx context.Context, l *domain.Language) error
	Get(ctx context.Context, id int64) (*domain.Language, error)
	GetByCode(ctx context.Context, termbaseID int64, code string) (*domain.Language, error)
	ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Language, error)
	// Delete removes the language, every term in it, every language-scoped
	// and term-scoped value attached to those rows, and then any entry of
	// the termbase left with zero terms.
	Delete(ctx context.Context, id int64) error
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, id int64) (*domain.Property, error)
	ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	// HasValues reports whether any value at any scope references the
	// property. Changing a property's level once values exist is rejected
	// upstream.
	HasValues(ctx context.Context, propertyID int64) (bool, error)
	// Delete removes only the property and its picklist choices. Values
	// referencing it are kept and become unresolvable at render time.
	Delete(ctx context.Context, id int64) error
}

type InputDescriptorRepository interface {
	// Create no-ops when an identical (termbase, property, language)
	// descriptor already exists.
	Create(ctx context.Context, d *domain.InputDescriptor) error
	ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.InputDescriptor, error)
	Delete(ctx context.Context, id int64) error
}

type EntryRepository interface {
	Create(ctx context.Context, e *domain.Entry) error
	Get(ctx context.Context, id int64) (*domain.Entry, error)
	ListByTermbase(ctx context.Context, termbaseID int64) ([]*domain.Entry, error)
	// Delete cascades to the entry's terms and to all three value scopes.
	Delete(ctx context.Context, id int64) error
}

type TermRepository interface {
	Create(ctx context.Context, t *domain.Term) error
	Get(ctx context.Context, id int64) (*domain.Term, error)
	ListByEntry(ctx context.Context, entryID int64) ([]*domain.Term, error)
	ListByEntryLang(ctx context.Context, entryID int64, lang string) ([]*domain.Term, error)
	Update(ctx context.Context, t *domain.Term) error
	// Delete cascades to the term's values.
	Delete(ctx context.Context, id int64) error
}

type EntryValueRepository interface {
	Create(ctx context.Context, v *domain.EntryValue) error
	Get(ctx context.Context, id int64) (*domain.EntryValue, error)
	ListByEntry(ctx context.Context, entryID int64) ([]*domain.EntryValue, error)
	Update(ctx context.Context, v *domain.EntryValue) error
	Delete(ctx context.Context, id int64) error
}

type LanguageValueRepository interface {
	Create(ctx context.Context, v *domain.LanguageValue) error
	Get(ctx context.Context, id int64) (*domain.LanguageValue, error)
	ListByEntryLanguage(ctx context.Context, entryID, languageID int64) ([]*domain.LanguageValue, error)
	Update(ctx context.Context, v *domain.LanguageValue) error
	Delete(ctx context.Context, id int64) error
}

type TermValueRepository interface {
	Create(ctx context.Context, v *domain.TermValue) error
	Get(ctx context.Context, id int64) (*domain.TermValue, error)
	ListByTerm(ctx context.Context, termID int64) ([]*domain.TermValue, error)
	Update(ctx context.Context, v *domain.TermValue) error
	Delete(ctx context.Context, id int64) error
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
