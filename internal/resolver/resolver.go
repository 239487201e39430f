// Package resolver resolves user and channel ids to display names,
// memoizing results for the lifetime of a run.
package resolver

import (
	"context"
	"log/slog"

	"law_mirror/internal/domain"
)

// Sentinel names cached for entities that can no longer be looked up.
const (
	DeletedUser    = "Deleted User"
	DeletedChannel = "Deleted Channel"
)

// Directory performs the remote lookups behind the resolver.
type Directory interface {
	LookupMember(ctx context.Context, userID string) (*domain.Member, error)
	LookupChannel(ctx context.Context, channelID string) (*domain.ChannelInfo, error)
}

// Resolver caches id -> display name mappings. Caches are never evicted
// within a run and are not shared across runs. Not safe for concurrent use;
// the sync pipeline is strictly sequential.
type Resolver struct {
	dir      Directory
	logger   *slog.Logger
	users    map[string]string
	channels map[string]string
}

func New(dir Directory, logger *slog.Logger) *Resolver {
	return &Resolver{
		dir:      dir,
		logger:   logger.With("component", "resolver"),
		users:    make(map[string]string),
		channels: make(map[string]string),
	}
}

// ResolveUser returns the guild nick of the member if set, else the global
// username. A failed lookup resolves to DeletedUser; the sentinel is cached
// so the lookup is never retried within the run.
func (r *Resolver) ResolveUser(ctx context.Context, userID string) string {
	if name, ok := r.users[userID]; ok {
		return name
	}

	name := DeletedUser
	member, err := r.dir.LookupMember(ctx, userID)
	if err != nil {
		r.logger.Warn("member lookup failed", "user_id", userID, "error", err)
	} else if member.Nick != "" {
		name = member.Nick
	} else {
		name = member.Username
	}

	r.users[userID] = name
	return name
}

// ResolveChannel returns the channel's display name, or DeletedChannel if
// the lookup fails. Failures are cached like successes.
func (r *Resolver) ResolveChannel(ctx context.Context, channelID string) string {
	if name, ok := r.channels[channelID]; ok {
		return name
	}

	name := DeletedChannel
	channel, err := r.dir.LookupChannel(ctx, channelID)
	if err != nil {
		r.logger.Warn("channel lookup failed", "channel_id", channelID, "error", err)
	} else {
		name = channel.Name
	}

	r.channels[channelID] = name
	return name
}
