// Package tally derives vote outcomes and a rendered transcript from a
// thread's messages.
package tally

import (
	"context"
	"fmt"
	"strings"

	"law_mirror/internal/domain"
)

// Translator renders one message's raw text to markup.
type Translator interface {
	Translate(ctx context.Context, content string) string
}

// Resolver resolves a speaker's user id to a display name.
type Resolver interface {
	ResolveUser(ctx context.Context, userID string) string
}

// Counter walks a thread's messages in chronological order, building the
// speaker-attributed transcript and the final for/against tally.
type Counter struct {
	translator Translator
	resolver   Resolver
}

func NewCounter(translator Translator, resolver Resolver) *Counter {
	return &Counter{translator: translator, resolver: resolver}
}

// Render consumes forward-chronological messages. Voting is last-keyword-wins
// per author on the lowercased raw text: a message containing "against"
// counts against, otherwise one containing "for" counts for. The "against"
// check runs first, so a message matching both is an against vote. Substring
// matching means words like "therefore" register as votes; that is a known
// and accepted limitation of the source data format.
func (c *Counter) Render(ctx context.Context, msgs []domain.Message) domain.RenderResult {
	usersFor := make(map[string]struct{})
	usersAgainst := make(map[string]struct{})
	var description strings.Builder

	for _, msg := range msgs {
		content := c.translator.Translate(ctx, msg.Content)

		description.WriteString("<b>")
		description.WriteString(c.resolver.ResolveUser(ctx, msg.AuthorID))
		description.WriteString(":</b> ")
		description.WriteString(content)
		description.WriteString("<br>")

		lower := strings.ToLower(msg.Content)
		if strings.Contains(lower, "against") {
			delete(usersFor, msg.AuthorID)
			usersAgainst[msg.AuthorID] = struct{}{}
		} else if strings.Contains(lower, "for") {
			delete(usersAgainst, msg.AuthorID)
			usersFor[msg.AuthorID] = struct{}{}
		}
	}

	// A tie is not a pass.
	passed := len(usersFor) > len(usersAgainst)

	return domain.RenderResult{
		Description: description.String(),
		Votes:       fmt.Sprintf("%d-for-%d-against", len(usersFor), len(usersAgainst)),
		Passed:      passed,
	}
}
