// Package store maps the presentation records onto the key-value adapter
// using the same key layout the browser demo writes to localStorage.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/kvstore"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/logger"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/metrics"
)

// MetadataKey is the single well-known key the whole summary collection
// lives under.
const MetadataKey = "demo-presentations"

// MetadataStore keeps the ordered collection of summary records. There is no
// per-record primitive: every mutation reads the full list, changes it in
// memory and rewrites it wholesale. Concurrent writers can race and lose an
// update; that is an accepted demo-scope limitation.
type MetadataStore struct {
	kv kvstore.Store
}

func NewMetadataStore(kv kvstore.Store) *MetadataStore {
	return &MetadataStore{kv: kv}
}

// ListAll returns the full collection. An absent key yields an empty list; a
// value that fails to decode is logged, counted and likewise treated as empty
// rather than surfaced as an error.
func (s *MetadataStore) ListAll(ctx context.Context) ([]presentation.Metadata, error) {
	raw, ok, err := s.kv.Get(ctx, MetadataKey)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	if !ok {
		return []presentation.Metadata{}, nil
	}
	var records []presentation.Metadata
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logger.Warnf("corrupt value under %q, treating as empty: %v", MetadataKey, err)
		metrics.CorruptRecords.WithLabelValues(MetadataKey).Inc()
		return []presentation.Metadata{}, nil
	}
	return records, nil
}

// ReplaceAll overwrites the entire collection, preserving slice order.
func (s *MetadataStore) ReplaceAll(ctx context.Context, records []presentation.Metadata) error {
	if records == nil {
		records = []presentation.Metadata{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode presentations: %w", err)
	}
	if err := s.kv.Set(ctx, MetadataKey, string(b)); err != nil {
		return fmt.Errorf("write presentations: %w", err)
	}
	return nil
}
