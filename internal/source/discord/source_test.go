package discord

import (
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"law_mirror/internal/domain"
)

func TestToThread(t *testing.T) {
	archivedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got := toThread(&discordgo.Channel{
		ID:            "t1",
		Name:          "Law 12: cheese tax",
		LastMessageID: "m9",
		ParentID:      "c1",
		ThreadMetadata: &discordgo.ThreadMetadata{
			Archived:         true,
			ArchiveTimestamp: archivedAt,
		},
	})

	assert.Equal(t, domain.Thread{
		ID:               "t1",
		Name:             "Law 12: cheese tax",
		LastMessageID:    "m9",
		ParentID:         "c1",
		Archived:         true,
		ArchiveTimestamp: archivedAt,
	}, got)
}

func TestToThread_NoMetadata(t *testing.T) {
	got := toThread(&discordgo.Channel{ID: "t1", ParentID: "c1"})

	assert.False(t, got.Archived)
	assert.True(t, got.ArchiveTimestamp.IsZero())
}

func TestIsNotFound(t *testing.T) {
	notFound := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
	}
	serverErr := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusInternalServerError},
	}

	assert.True(t, isNotFound(notFound))
	assert.False(t, isNotFound(serverErr))
	assert.False(t, isNotFound(assert.AnError))
}
