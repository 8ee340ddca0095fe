package catalog

import (
	"context"

	"glossa/internal/domain"
	"glossa/internal/ports"
)

// Service is the read-only view of a termbase's schema: property
// definitions, input descriptors, languages. No caching: every call
// reflects the store at call time, so consumers re-fetch after any schema
// mutation notification.
type Service struct {
	props       ports.PropertyRepository
	descriptors ports.InputDescriptorRepository
	languages   ports.LanguageRepository
}

func New(props ports.PropertyRepository, descriptors ports.InputDescriptorRepository, languages ports.LanguageRepository) *Service {
	return &Service{props: props, descriptors: descriptors, languages: languages}
}

func (s *Service) PropertiesOf(ctx context.Context, termbaseID int64) ([]*domain.Property, error) {
	return s.props.ListByTermbase(ctx, termbaseID)
}

func (s *Service) InputDescriptorsOf(ctx context.Context, termbaseID int64) ([]*domain.InputDescriptor, error) {
	return s.descriptors.ListByTermbase(ctx, termbaseID)
}

func (s *Service) LanguagesOf(ctx context.Context, termbaseID int64) ([]*domain.Language, error) {
	return s.languages.ListByTermbase(ctx, termbaseID)
}

// PropertyMap indexes the termbase's properties by id. Values referencing a
// property absent from the map are orphans and render with an empty name.
func (s *Service) PropertyMap(ctx context.Context, termbaseID int64) (map[int64]*domain.Property, error) {
	props, err := s.props.ListByTermbase(ctx, termbaseID)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*domain.Property, len(props))
	for _, p := range props {
		m[p.ID] = p
	}
	return m, nil
}
