package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"law_mirror/internal/domain"
)

// generatedLayout is the human-readable day stamp of the document,
// e.g. "Mon  2 Sep".
const generatedLayout = "Mon _2 Jan"

// SyncService reconciles the persisted law document against the current
// remote thread state.
type SyncService struct {
	source         Source
	store          LawStore
	renderer       Renderer
	publisher      Publisher
	runs           RunStore
	logger         *slog.Logger
	channels       []string
	kinds          []domain.ThreadKind
	specialChannel string
	now            func() time.Time
}

// Config holds the watch set of the reconciler.
type Config struct {
	Channels       []string
	Kinds          []domain.ThreadKind
	SpecialChannel string
}

func NewSyncService(
	source Source,
	store LawStore,
	renderer Renderer,
	publisher Publisher,
	runs RunStore,
	logger *slog.Logger,
	cfg Config,
) *SyncService {
	return &SyncService{
		source:         source,
		store:          store,
		renderer:       renderer,
		publisher:      publisher,
		runs:           runs,
		logger:         logger.With("component", "reconciler"),
		channels:       cfg.Channels,
		kinds:          cfg.Kinds,
		specialChannel: cfg.SpecialChannel,
		now:            time.Now,
	}
}

// Sync runs one full reconciliation. The document is written only after the
// whole pass succeeds; any fetch failure aborts with nothing persisted.
func (s *SyncService) Sync(ctx context.Context) (*domain.RunStats, error) {
	startTime := s.now()
	s.logger.Info("starting sync", "channels", len(s.channels), "kinds", len(s.kinds))

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	threads, err := s.enumerateThreads(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate threads: %w", err)
	}

	stats := &domain.RunStats{Enumerated: len(threads)}

	// lastIndex tracks where the most recently processed thread sits in the
	// document, so brand-new threads slot in right after it and keep the
	// enumerator's relative order.
	lastIndex := -1
	for _, thread := range threads {
		idx := indexOf(doc.Laws, thread.ID)

		if idx >= 0 {
			if err := s.refresh(ctx, doc, idx, thread, stats); err != nil {
				return nil, err
			}
			lastIndex = idx
			continue
		}

		lastIndex++
		if err := s.insert(ctx, doc, lastIndex, thread, stats); err != nil {
			return nil, err
		}
	}

	doc.Generated = s.now().Format(generatedLayout)
	stats.Generated = doc.Generated

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	stats.Duration = s.now().Sub(startTime)

	if s.runs != nil {
		if err := s.runs.Record(ctx, stats); err != nil {
			s.logger.Warn("record run history", "error", err)
		}
	}

	s.logger.Info("sync completed",
		"enumerated", stats.Enumerated,
		"new", stats.New,
		"refreshed", stats.Refreshed,
		"skipped", stats.Skipped,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// refresh updates an existing record in place when its watermark moved. A
// record whose watermark is unchanged is left entirely untouched, which is
// what makes repeated runs byte-identical. The operator-maintained
// interpretation field and the record's position survive every refresh.
func (s *SyncService) refresh(ctx context.Context, doc *domain.LawDocument, idx int, thread domain.Thread, stats *domain.RunStats) error {
	record := &doc.Laws[idx]
	if record.LastMessageID == thread.LastMessageID {
		stats.Skipped++
		return nil
	}

	res, err := s.render(ctx, thread)
	if err != nil {
		return err
	}

	record.LastMessageID = thread.LastMessageID
	record.Name = thread.Name
	record.Votes = res.Votes
	record.Passed = res.Passed
	record.Status = domain.StatusFor(thread.Archived, res.Passed)
	record.Description = res.Description
	stats.Refreshed++

	s.logger.Debug("refreshed law", "id", record.ID, "name", record.Name, "status", record.Status)

	s.publish(ctx, record, false, stats)
	return nil
}

// insert builds a record for a newly discovered thread and places it at the
// given position.
func (s *SyncService) insert(ctx context.Context, doc *domain.LawDocument, idx int, thread domain.Thread, stats *domain.RunStats) error {
	res, err := s.render(ctx, thread)
	if err != nil {
		return err
	}

	record := domain.LawRecord{
		ID:            thread.ID,
		LastMessageID: thread.LastMessageID,
		Name:          thread.Name,
		Votes:         res.Votes,
		Passed:        res.Passed,
		Constitution:  thread.ParentID == s.specialChannel,
		Status:        domain.StatusFor(thread.Archived, res.Passed),
		Description:   res.Description,
	}

	doc.Laws = append(doc.Laws, domain.LawRecord{})
	copy(doc.Laws[idx+1:], doc.Laws[idx:])
	doc.Laws[idx] = record
	stats.New++

	s.logger.Info("discovered new law", "id", record.ID, "name", record.Name, "status", record.Status)

	s.publish(ctx, &doc.Laws[idx], true, stats)
	return nil
}

func (s *SyncService) render(ctx context.Context, thread domain.Thread) (domain.RenderResult, error) {
	msgs, err := s.source.Messages(ctx, thread.ID)
	if err != nil {
		return domain.RenderResult{}, fmt.Errorf("thread %s: %w", thread.ID, err)
	}
	return s.renderer.Render(ctx, msgs), nil
}

// publish failures are counted but never abort the run; the mirrored
// document, not the event stream, is the source of truth.
func (s *SyncService) publish(ctx context.Context, record *domain.LawRecord, isNew bool, stats *domain.RunStats) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, record, isNew); err != nil {
		s.logger.Warn("publish law event", "id", record.ID, "error", err)
		stats.Errors++
		return
	}
	stats.Published++
}

func indexOf(laws []domain.LawRecord, id string) int {
	for i := range laws {
		if laws[i].ID == id {
			return i
		}
	}
	return -1
}
