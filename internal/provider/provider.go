// Package provider defines the metadata lookup boundary used by immersion
// logging. Concrete providers (vndb, anilist, youtube) live outside this
// repository; the bot consumes them through Provider and caches results.
package provider

import (
	"context"

	"gengo-bot/internal/domain"
)

// Provider resolves a content id to its metadata.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, id string) (domain.ProviderMetadata, error)
}

// Set routes media types to their provider. Media types without a provider
// are logged with the user-supplied title as-is.
type Set struct {
	byMedia map[domain.MediaType]Provider
}

func NewSet() *Set {
	return &Set{byMedia: make(map[domain.MediaType]Provider)}
}

// Register binds a provider to a media type, replacing any previous one.
func (s *Set) Register(media domain.MediaType, p Provider) {
	s.byMedia[media] = p
}

// For returns the provider for a media type, if one is registered.
func (s *Set) For(media domain.MediaType) (Provider, bool) {
	p, ok := s.byMedia[media]
	return p, ok
}

// Static is a fixture-backed provider for tests and offline runs.
type Static struct {
	ProviderName string
	Entries      map[string]domain.ProviderMetadata
}

func (s *Static) Name() string {
	return s.ProviderName
}

func (s *Static) Lookup(_ context.Context, id string) (domain.ProviderMetadata, error) {
	if md, ok := s.Entries[id]; ok {
		return md, nil
	}
	return domain.ProviderMetadata{}, domain.ErrMetadataNotFound
}
