// Package dictionary holds the translation dictionary: extracted comment text
// mapped to a translation that a human fills in later.
package dictionary

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Store loads and persists the whole mapping.
type Store interface {
	// Load returns the stored mapping. A store with nothing saved yet returns
	// an empty mapping and no error.
	Load(ctx context.Context) (map[string]string, error)
	// Save persists the full mapping.
	Save(ctx context.Context, entries map[string]string) error
	// Location describes where the mapping lives, for log lines.
	Location() string
}

// Dictionary is the in-memory mapping backed by a Store.
type Dictionary struct {
	store   Store
	entries map[string]string
	log     zerolog.Logger
}

// Open loads the dictionary from store. Any load failure is logged and the
// dictionary starts empty.
func Open(ctx context.Context, store Store, logger zerolog.Logger) *Dictionary {
	entries, err := store.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Str("dictionary", store.Location()).Msg("Error loading dictionary")
		entries = nil
	}
	if entries == nil {
		entries = make(map[string]string)
	}

	logger.Debug().Int("count", len(entries)).Str("dictionary", store.Location()).Msg("Loaded dictionary")
	return &Dictionary{
		store:   store,
		entries: entries,
		log:     logger,
	}
}

// Add records source with an empty translation unless it is already present.
// It reports whether the entry was added.
func (d *Dictionary) Add(source string) bool {
	if _, ok := d.entries[source]; ok {
		return false
	}
	d.entries[source] = ""
	return true
}

// Lookup returns the translation recorded for source.
func (d *Dictionary) Lookup(source string) (string, bool) {
	v, ok := d.entries[source]
	return v, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Keys returns the sources in sorted order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the mapping.
func (d *Dictionary) Entries() map[string]string {
	out := make(map[string]string, len(d.entries))
	for k, v := range d.entries {
		out[k] = v
	}
	return out
}

// Save writes the full mapping to the store.
func (d *Dictionary) Save(ctx context.Context) error {
	if err := d.store.Save(ctx, d.entries); err != nil {
		return fmt.Errorf("save dictionary %s: %w", d.store.Location(), err)
	}
	d.log.Debug().Int("count", len(d.entries)).Str("dictionary", d.store.Location()).Msg("Saved dictionary")
	return nil
}
