package domain

import (
	"errors"
	"time"
)

// ErrNotFound signals that a Discord entity (member, channel) does not
// exist or is no longer accessible.
var ErrNotFound = errors.New("not found")

// ThreadKind selects which thread-listing endpoint a channel is queried with.
type ThreadKind string

const (
	ThreadKindActive          ThreadKind = "active"
	ThreadKindArchivedPublic  ThreadKind = "archived_public"
	ThreadKindArchivedPrivate ThreadKind = "archived_private"
)

// Thread is one discussion thread as reported by the listing endpoint.
// Immutable for the duration of a run.
type Thread struct {
	ID               string
	Name             string
	LastMessageID    string
	ParentID         string
	Archived         bool
	ArchiveTimestamp time.Time
}

// ThreadPage is a single page of a thread listing.
type ThreadPage struct {
	Threads []Thread
	HasMore bool
}

// Message is a single thread message, author id plus raw markup text.
type Message struct {
	ID       string
	AuthorID string
	Content  string
}

// Member holds the display metadata of a guild member.
type Member struct {
	Nick     string
	Username string
}

// ChannelInfo holds the display metadata of a channel.
type ChannelInfo struct {
	Name string
}

// LawRecord is the persisted unit of the mirror. Field order matches the
// on-disk document and must stay stable for diff-friendliness.
type LawRecord struct {
	ID             string `json:"id"`
	LastMessageID  string `json:"last_message_id"`
	Name           string `json:"name"`
	Votes          string `json:"votes"`
	Passed         bool   `json:"passed"`
	Constitution   bool   `json:"constitution"`
	Status         string `json:"status"`
	Interpretation string `json:"interpretation"`
	Description    string `json:"description"`
}

// LawDocument is the full persisted document. The order of Laws is
// significant and is preserved across runs.
type LawDocument struct {
	Generated string      `json:"generated"`
	Laws      []LawRecord `json:"laws"`
}

// RenderResult is the derived output for one thread's messages.
type RenderResult struct {
	Description string
	Votes       string
	Passed      bool
}

// Statuses derived from a thread's archival state and its tally.
const (
	StatusPassed    = "Passed"
	StatusNotPassed = "Not passed"
	StatusVoting    = "Voting"
)

// StatusFor derives the display status. Vote counts of a still-open thread
// are in progress, so an unarchived thread is always "Voting".
func StatusFor(archived, passed bool) string {
	switch {
	case archived && passed:
		return StatusPassed
	case archived:
		return StatusNotPassed
	default:
		return StatusVoting
	}
}
