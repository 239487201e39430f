// Package discord adapts the Discord REST API to the domain types the sync
// pipeline consumes. Only REST calls are made; no gateway connection is
// opened.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"law_mirror/internal/domain"
)

// archivedPageSize is the Discord maximum for archived-thread listings.
const archivedPageSize = 100

// Config holds the guild-scoped settings of the source.
type Config struct {
	GuildID      string
	MessageLimit int
}

// Source issues authenticated Discord REST calls and converts the responses
// to domain values.
type Source struct {
	session      *discordgo.Session
	guildID      string
	messageLimit int
	logger       *slog.Logger
}

func New(session *discordgo.Session, cfg Config, logger *slog.Logger) *Source {
	limit := cfg.MessageLimit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return &Source{
		session:      session,
		guildID:      cfg.GuildID,
		messageLimit: limit,
		logger:       logger.With("source", "discord"),
	}
}

// Threads fetches one page of threads for a channel. The before cursor only
// applies to archived listings; the active listing is returned whole in a
// single page.
func (s *Source) Threads(ctx context.Context, channelID string, kind domain.ThreadKind, before *time.Time) (*domain.ThreadPage, error) {
	var (
		list *discordgo.ThreadsList
		err  error
	)

	switch kind {
	case domain.ThreadKindActive:
		list, err = s.session.ThreadsActive(channelID, discordgo.WithContext(ctx))
	case domain.ThreadKindArchivedPublic:
		list, err = s.session.ThreadsArchived(channelID, before, archivedPageSize, discordgo.WithContext(ctx))
	case domain.ThreadKindArchivedPrivate:
		list, err = s.session.ThreadsPrivateArchived(channelID, before, archivedPageSize, discordgo.WithContext(ctx))
	default:
		return nil, fmt.Errorf("unknown thread kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s threads of channel %s: %w", kind, channelID, err)
	}

	page := &domain.ThreadPage{
		Threads: make([]domain.Thread, 0, len(list.Threads)),
		HasMore: list.HasMore,
	}
	for _, t := range list.Threads {
		page.Threads = append(page.Threads, toThread(t))
	}

	s.logger.Debug("fetched thread page",
		"channel_id", channelID,
		"kind", kind,
		"threads", len(page.Threads),
		"has_more", page.HasMore,
	)

	return page, nil
}

// Messages returns the most recent messages of a thread in forward
// chronological order. Discord serves them newest-first.
func (s *Source) Messages(ctx context.Context, threadID string) ([]domain.Message, error) {
	raw, err := s.session.ChannelMessages(threadID, s.messageLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list messages of thread %s: %w", threadID, err)
	}

	msgs := make([]domain.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		m := raw[i]
		if m.Author == nil {
			continue
		}
		msgs = append(msgs, domain.Message{
			ID:       m.ID,
			AuthorID: m.Author.ID,
			Content:  m.Content,
		})
	}

	return msgs, nil
}

// LookupMember fetches a guild member's display metadata. A missing member
// maps to domain.ErrNotFound.
func (s *Source) LookupMember(ctx context.Context, userID string) (*domain.Member, error) {
	member, err := s.session.GuildMember(s.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("member %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup member %s: %w", userID, err)
	}

	info := &domain.Member{Nick: member.Nick}
	if member.User != nil {
		info.Username = member.User.Username
	}
	return info, nil
}

// LookupChannel fetches a channel's display metadata. A missing channel maps
// to domain.ErrNotFound.
func (s *Source) LookupChannel(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	channel, err := s.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup channel %s: %w", channelID, err)
	}

	return &domain.ChannelInfo{Name: channel.Name}, nil
}

func toThread(t *discordgo.Channel) domain.Thread {
	thread := domain.Thread{
		ID:            t.ID,
		Name:          t.Name,
		LastMessageID: t.LastMessageID,
		ParentID:      t.ParentID,
	}
	if t.ThreadMetadata != nil {
		thread.Archived = t.ThreadMetadata.Archived
		thread.ArchiveTimestamp = t.ThreadMetadata.ArchiveTimestamp
	}
	return thread
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
