package app

import (
	"context"
	"errors"

	"glossa/internal/domain"
	"glossa/internal/ports"
)

// TermbaseAPI groups the termbase management operations the wizard and
// editor dialogs call: termbase CRUD, languages, properties and input
// descriptors.
type TermbaseAPI struct {
	termbases   ports.TermbaseRepository
	languages   ports.LanguageRepository
	props       ports.PropertyRepository
	descriptors ports.InputDescriptorRepository
	events      ports.EventEmitter
}

func NewTermbaseAPI(
	termbases ports.TermbaseRepository,
	languages ports.LanguageRepository,
	props ports.PropertyRepository,
	descriptors ports.InputDescriptorRepository,
	events ports.EventEmitter,
) *TermbaseAPI {
	return &TermbaseAPI{termbases: termbases, languages: languages, props: props, descriptors: descriptors, events: events}
}

func (a *TermbaseAPI) Create(ctx context.Context, name, description string) (*domain.Termbase, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	tb := &domain.Termbase{Name: name, Description: description}
	if err := a.termbases.Create(ctx, tb); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventTermbaseChanged, tb.ID)
	return tb, nil
}

func (a *TermbaseAPI) List(ctx context.Context) ([]*domain.Termbase, error) {
	return a.termbases.List(ctx)
}

func (a *TermbaseAPI) Get(ctx context.Context, id int64) (*domain.Termbase, error) {
	return a.termbases.Get(ctx, id)
}

func (a *TermbaseAPI) Update(ctx context.Context, id int64, name, description string) (*domain.Termbase, error) {
	tb, err := a.termbases.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tb == nil {
		return nil, errors.New("termbase not found")
	}
	tb.Name = name
	tb.Description = description
	if err := a.termbases.Update(ctx, tb); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventTermbaseChanged, tb.ID)
	return tb, nil
}

func (a *TermbaseAPI) Delete(ctx context.Context, id int64) error {
	if err := a.termbases.Delete(ctx, id); err != nil {
		return err
	}
	a.events.Emit(ports.EventTermbaseChanged, id)
	return nil
}

func (a *TermbaseAPI) AddLanguage(ctx context.Context, termbaseID int64, code string) (*domain.Language, error) {
	if code == "" {
		return nil, errors.New("language code is required")
	}
	l := &domain.Language{TermbaseID: termbaseID, Code: code}
	if err := a.languages.Create(ctx, l); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventLanguagesChanged, termbaseID)
	return l, nil
}

func (a *TermbaseAPI) ListLanguages(ctx context.Context, termbaseID int64) ([]*domain.Language, error) {
	return a.languages.ListByTermbase(ctx, termbaseID)
}

// RemoveLanguage cascades: terms in the language, their values, and any
// entry left without terms disappear with it.
func (a *TermbaseAPI) RemoveLanguage(ctx context.Context, id int64) error {
	lang, err := a.languages.Get(ctx, id)
	if err != nil {
		return err
	}
	if lang == nil {
		return nil
	}
	if err := a.languages.Delete(ctx, id); err != nil {
		return err
	}
	a.events.Emit(ports.EventLanguagesChanged, lang.TermbaseID)
	return nil
}

func (a *TermbaseAPI) CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	if p.Name == "" {
		return nil, errors.New("property name is required")
	}
	if err := a.props.Create(ctx, &p); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventTermbaseChanged, p.TermbaseID)
	return &p, nil
}

// UpdateProperty rejects level changes once values exist for the property;
// what existing values would mean at another scope is undefined.
func (a *TermbaseAPI) UpdateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	existing, err := a.props.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("property not found")
	}
	if existing.Level != p.Level {
		has, err := a.props.HasValues(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, errors.New("cannot change the level of a property that already has values")
		}
	}
	if err := a.props.Update(ctx, &p); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventTermbaseChanged, p.TermbaseID)
	return &p, nil
}

// DeleteProperty never touches values referencing the property: they stay
// behind as orphans and render with an empty name.
func (a *TermbaseAPI) DeleteProperty(ctx context.Context, id int64) error {
	p, err := a.props.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if err := a.props.Delete(ctx, id); err != nil {
		return err
	}
	a.events.Emit(ports.EventTermbaseChanged, p.TermbaseID)
	return nil
}

func (a *TermbaseAPI) AddInputDescriptor(ctx context.Context, d domain.InputDescriptor) (*domain.InputDescriptor, error) {
	if err := a.descriptors.Create(ctx, &d); err != nil {
		return nil, err
	}
	a.events.Emit(ports.EventTermbaseChanged, d.TermbaseID)
	return &d, nil
}

func (a *TermbaseAPI) ListInputDescriptors(ctx context.Context, termbaseID int64) ([]*domain.InputDescriptor, error) {
	return a.descriptors.ListByTermbase(ctx, termbaseID)
}

func (a *TermbaseAPI) RemoveInputDescriptor(ctx context.Context, id int64) error {
	return a.descriptors.Delete(ctx, id)
}
