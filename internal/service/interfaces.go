package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"law_mirror/internal/domain"
)

// Source is the remote chat platform the mirror reads from.
type Source interface {
	Threads(ctx context.Context, channelID string, kind domain.ThreadKind, before *time.Time) (*domain.ThreadPage, error)
	Messages(ctx context.Context, threadID string) ([]domain.Message, error)
}

// LawStore persists the mirrored document.
type LawStore interface {
	Load(ctx context.Context) (*domain.LawDocument, error)
	Save(ctx context.Context, doc *domain.LawDocument) error
}

// Renderer turns a thread's messages into derived record fields.
type Renderer interface {
	Render(ctx context.Context, msgs []domain.Message) domain.RenderResult
}

// Publisher announces created and refreshed records to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, law *domain.LawRecord, isNew bool) error
	Close() error
}

// RunStore records per-run statistics.
type RunStore interface {
	Record(ctx context.Context, stats *domain.RunStats) error
}
