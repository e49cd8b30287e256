// Package service implements the presentation operations the dashboard
// consumes: create, load, list, update, delete, duplicate and share. It is a
// façade over the metadata and document stores; the two records for a
// presentation are written independently, with no transaction across them.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/identity"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/store"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/logger"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/metrics"
)

var (
	ErrNotFound          = errors.New("presentation not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const maxDescriptionLen = 120

// Service combines the metadata and document stores behind the operations
// the dashboard calls.
type Service struct {
	meta      *store.MetadataStore
	docs      *store.DocumentStore
	ident     *identity.Resolver
	shareBase string
	now       func() time.Time
}

func NewService(meta *store.MetadataStore, docs *store.DocumentStore, ident *identity.Resolver, shareBase string) *Service {
	return &Service{
		meta:      meta,
		docs:      docs,
		ident:     ident,
		shareBase: shareBase,
		now:       time.Now,
	}
}

// Save mints a fresh id, appends a summary record for the active owner and
// writes the full document. New presentations start as private drafts with a
// zero view count.
func (s *Service) Save(ctx context.Context, doc *presentation.Document) (string, error) {
	id := uuid.NewString()
	now := s.now().UTC()
	meta := presentation.Metadata{
		ID:          id,
		UserID:      s.ident.OwnerID(ctx),
		Title:       doc.Title,
		Description: summarize(doc),
		Status:      presentation.StatusDraft,
		TotalSlides: len(doc.Slides),
		Tags:        ExtractTags(doc),
		IsPublic:    false,
		ViewCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	records, err := s.meta.ListAll(ctx)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("save", "error").Inc()
		return "", err
	}
	records = append(records, meta)
	if err := s.meta.ReplaceAll(ctx, records); err != nil {
		metrics.PresentationOps.WithLabelValues("save", "error").Inc()
		return "", err
	}
	if err := s.docs.Set(ctx, id, doc); err != nil {
		metrics.PresentationOps.WithLabelValues("save", "error").Inc()
		return "", err
	}

	metrics.PresentationOps.WithLabelValues("save", "ok").Inc()
	logger.Debugf("saved presentation %s (%d slides) for %s", id, len(doc.Slides), meta.UserID)
	return id, nil
}

// Load returns the full document for id, or ErrNotFound. On success the
// matching summary record's view count is incremented best-effort: a missing
// record or a failed rewrite is logged and tolerated, never fatal.
func (s *Service) Load(ctx context.Context, id string) (*presentation.Document, error) {
	doc, found, err := s.docs.Get(ctx, id)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("load", "error").Inc()
		return nil, err
	}
	if !found {
		metrics.PresentationOps.WithLabelValues("load", "not_found").Inc()
		return nil, ErrNotFound
	}

	if err := s.bumpViewCount(ctx, id); err != nil {
		logger.Warnf("view count increment for %s skipped: %v", id, err)
	}

	metrics.PresentationOps.WithLabelValues("load", "ok").Inc()
	return doc, nil
}

func (s *Service) bumpViewCount(ctx context.Context, id string) error {
	records, err := s.meta.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id {
			records[i].ViewCount++
			return s.meta.ReplaceAll(ctx, records)
		}
	}
	// summary record missing: document is still served, increment skipped
	return nil
}

// List returns the owner's summary records, most recently updated first.
// Records with equal update times keep their stored relative order. An empty
// ownerID resolves to the active identity.
func (s *Service) List(ctx context.Context, ownerID string) ([]presentation.Metadata, error) {
	if ownerID == "" {
		ownerID = s.ident.OwnerID(ctx)
	}
	records, err := s.meta.ListAll(ctx)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("list", "error").Inc()
		return nil, err
	}
	out := make([]presentation.Metadata, 0, len(records))
	for _, r := range records {
		if r.UserID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	metrics.PresentationOps.WithLabelValues("list", "ok").Inc()
	return out, nil
}

// Update merges the patch into the stored records. A provided slide sequence
// replaces the whole sequence and resynchronizes the slide count; a provided
// title is mirrored into the summary record. Without a summary record the
// update is a silent no-op on metadata, but a still-existing document is
// written anyway; the partial state is tolerated, not rolled back.
func (s *Service) Update(ctx context.Context, id string, patch presentation.DocumentPatch) error {
	records, err := s.meta.ListAll(ctx)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("update", "error").Inc()
		return err
	}
	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}

	if idx >= 0 && patch.Status != nil {
		if !patch.Status.Valid() || !records[idx].Status.CanTransitionTo(*patch.Status) {
			metrics.PresentationOps.WithLabelValues("update", "invalid").Inc()
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, records[idx].Status, *patch.Status)
		}
	}

	doc, docFound, err := s.docs.Get(ctx, id)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("update", "error").Inc()
		return err
	}
	if docFound {
		if patch.Title != nil {
			doc.Title = *patch.Title
		}
		if patch.Slides != nil {
			doc.Slides = *patch.Slides
		}
		if err := s.docs.Set(ctx, id, doc); err != nil {
			metrics.PresentationOps.WithLabelValues("update", "error").Inc()
			return err
		}
	}

	if idx < 0 {
		metrics.PresentationOps.WithLabelValues("update", "no_metadata").Inc()
		return nil
	}

	m := &records[idx]
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Slides != nil {
		m.TotalSlides = len(*patch.Slides)
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.IsPublic != nil {
		m.IsPublic = *patch.IsPublic
	}
	if patch.Theme != nil {
		m.Theme = *patch.Theme
	}
	if docFound && (patch.Title != nil || patch.Slides != nil) {
		m.Tags = ExtractTags(doc)
	}
	m.UpdatedAt = s.now().UTC()

	if err := s.meta.ReplaceAll(ctx, records); err != nil {
		metrics.PresentationOps.WithLabelValues("update", "error").Inc()
		return err
	}
	metrics.PresentationOps.WithLabelValues("update", "ok").Inc()
	return nil
}

// Delete removes both the summary record and the document. Deleting an id
// that never existed is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	records, err := s.meta.ListAll(ctx)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(records) {
		if err := s.meta.ReplaceAll(ctx, kept); err != nil {
			metrics.PresentationOps.WithLabelValues("delete", "error").Inc()
			return err
		}
	}
	if err := s.docs.Remove(ctx, id); err != nil {
		metrics.PresentationOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.PresentationOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Duplicate copies the presentation under a new id. The copy takes newTitle
// when provided, otherwise "<original> (Copy)". The copy goes through Load,
// so the original's view count is incremented as a side effect; the dashboard
// has always behaved this way and callers rely on nothing else.
func (s *Service) Duplicate(ctx context.Context, id, newTitle string) (string, error) {
	doc, err := s.Load(ctx, id)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("duplicate", "error").Inc()
		return "", err
	}
	title := newTitle
	if title == "" {
		title = doc.Title + " (Copy)"
	}
	dup := &presentation.Document{
		Title:  title,
		Slides: append([]presentation.Slide(nil), doc.Slides...),
	}
	newID, err := s.Save(ctx, dup)
	if err != nil {
		metrics.PresentationOps.WithLabelValues("duplicate", "error").Inc()
		return "", err
	}
	metrics.PresentationOps.WithLabelValues("duplicate", "ok").Inc()
	return newID, nil
}

// Share returns the deterministic share URL for id. Nothing is persisted and
// no permission is enforced in demo mode; the recipient is only logged.
func (s *Service) Share(ctx context.Context, id, recipient, permission string) (string, error) {
	if permission == "" {
		permission = "view"
	}
	if recipient != "" {
		logger.Debugf("share %s with %s (%s)", id, recipient, permission)
	}
	metrics.PresentationOps.WithLabelValues("share", "ok").Inc()
	return fmt.Sprintf("%s/shared/%s?permission=%s", s.shareBase, id, permission), nil
}

// summarize derives the short system-generated description from the first
// slide's first content line.
func summarize(doc *presentation.Document) string {
	if len(doc.Slides) == 0 || len(doc.Slides[0].Content) == 0 {
		return ""
	}
	d := doc.Slides[0].Content[0]
	if len(d) > maxDescriptionLen {
		d = d[:maxDescriptionLen]
	}
	return d
}
