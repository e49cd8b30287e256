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

const documentKeyPrefix = "presentation-"

// DocumentKey returns the per-presentation key the full document lives under.
func DocumentKey(id string) string {
	return documentKeyPrefix + id
}

// DocumentStore keeps one full presentation document per key.
type DocumentStore struct {
	kv kvstore.Store
}

func NewDocumentStore(kv kvstore.Store) *DocumentStore {
	return &DocumentStore{kv: kv}
}

// Get returns the document for id. A missing key and a corrupt value both
// report found=false; corruption is logged and counted.
func (s *DocumentStore) Get(ctx context.Context, id string) (*presentation.Document, bool, error) {
	key := DocumentKey(id)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("read document %s: %w", id, err)
	}
	if !ok {
		return nil, false, nil
	}
	var doc presentation.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Warnf("corrupt value under %q, treating as absent: %v", key, err)
		metrics.CorruptRecords.WithLabelValues("presentation-document").Inc()
		return nil, false, nil
	}
	return &doc, true, nil
}

func (s *DocumentStore) Set(ctx context.Context, id string, doc *presentation.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}
	if err := s.kv.Set(ctx, DocumentKey(id), string(b)); err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	return nil
}

func (s *DocumentStore) Remove(ctx context.Context, id string) error {
	if err := s.kv.Remove(ctx, DocumentKey(id)); err != nil {
		return fmt.Errorf("remove document %s: %w", id, err)
	}
	return nil
}
