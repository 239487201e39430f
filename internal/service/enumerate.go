package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"law_mirror/internal/domain"
)

// enumerateThreads pages through every configured (channel, kind) pair,
// collects all threads into one list and sorts it once, most recently
// archived or active first. Any fetch failure aborts the enumeration with no
// partial result.
func (s *SyncService) enumerateThreads(ctx context.Context) ([]domain.Thread, error) {
	var threads []domain.Thread

	for _, channelID := range s.channels {
		for _, kind := range s.kinds {
			var before *time.Time
			for {
				page, err := s.source.Threads(ctx, channelID, kind, before)
				if err != nil {
					return nil, err
				}

				threads = append(threads, page.Threads...)

				if !page.HasMore {
					break
				}
				if len(page.Threads) == 0 {
					// The listing endpoint promises progress whenever it
					// reports more pages. Without it we would spin forever.
					return nil, fmt.Errorf("channel %s: %s listing reported more pages but returned no threads", channelID, kind)
				}
				cursor := page.Threads[len(page.Threads)-1].ArchiveTimestamp
				before = &cursor
			}
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].ArchiveTimestamp.After(threads[j].ArchiveTimestamp)
	})

	s.logger.Info("enumerated threads", "count", len(threads))

	return threads, nil
}
