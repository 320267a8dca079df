package provider

import (
	"encoding/json"
	"fmt"
	"os"

	"gengo-bot/internal/domain"
)

type fileEntry struct {
	Name    string                             `json:"name"`
	Entries map[string]domain.ProviderMetadata `json:"entries"`
}

// LoadFile reads a JSON catalog of static providers keyed by media type:
//
//	{"visualnovel": {"name": "vndb", "entries": {"v11": {"title": "..."}}}}
//
// It backs deployments that pin known titles instead of calling live APIs.
func LoadFile(path string) (map[domain.MediaType]Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read provider catalog: %w", err)
	}
	var raw map[string]fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse provider catalog %s: %w", path, err)
	}

	out := make(map[domain.MediaType]Provider, len(raw))
	for media, entry := range raw {
		mt := domain.MediaType(media)
		if !mt.Valid() {
			return nil, fmt.Errorf("provider catalog %s: unknown media type %q", path, media)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("provider catalog %s: media type %q has no provider name", path, media)
		}
		out[mt] = &Static{ProviderName: entry.Name, Entries: entry.Entries}
	}
	return out, nil
}
