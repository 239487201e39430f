// Package markup converts raw Discord message text into HTML-like markup.
package markup

import (
	"context"
	"strings"
)

// Resolver resolves mention tokens to display names.
type Resolver interface {
	ResolveUser(ctx context.Context, userID string) string
	ResolveChannel(ctx context.Context, channelID string) string
}

// Translator performs the message-to-markup translation. Formatting state
// is scoped to a single Translate call.
type Translator struct {
	resolver Resolver
}

func NewTranslator(resolver Resolver) *Translator {
	return &Translator{resolver: resolver}
}

// Translate runs a single left-to-right pass over the message text:
//
//   - "**" toggles a <b> tag, a lone "*" toggles <i>
//   - "<#id>" and "<@id>" / "<@!id>" become resolved mention spans
//   - any other "<" is emitted literally together with the next character
//   - newlines become <br>
//
// Unterminated formatting is left open on purpose; the upstream renderer
// behaves the same way and the output must stay comparable.
func (t *Translator) Translate(ctx context.Context, content string) string {
	var out strings.Builder
	runes := []rune(content)
	bold, italic := false, false

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				i++
				if bold {
					out.WriteString("</b>")
				} else {
					out.WriteString("<b>")
				}
				bold = !bold
			} else {
				if italic {
					out.WriteString("</i>")
				} else {
					out.WriteString("<i>")
				}
				italic = !italic
			}
		case '<':
			if i+1 >= len(runes) {
				out.WriteRune('<')
				break
			}
			switch runes[i+1] {
			case '#':
				id, next := scanID(runes, i+2)
				i = next
				out.WriteString(`<span class="ping">#`)
				out.WriteString(t.resolver.ResolveChannel(ctx, id))
				out.WriteString("</span>")
			case '@':
				start := i + 2
				if start < len(runes) && runes[start] == '!' {
					start++
				}
				id, next := scanID(runes, start)
				i = next
				out.WriteString(`<span class="ping">@`)
				out.WriteString(t.resolver.ResolveUser(ctx, id))
				out.WriteString("</span>")
			default:
				out.WriteRune('<')
				out.WriteRune(runes[i+1])
				i++
			}
		case '\n':
			out.WriteString("<br>")
		default:
			out.WriteRune(runes[i])
		}
	}

	return out.String()
}

// scanID consumes runes from start up to and excluding the terminating '>'.
// It returns the consumed id and the index of the last consumed rune (the
// '>' itself, or the final rune if the token is unterminated).
func scanID(runes []rune, start int) (string, int) {
	var id strings.Builder
	i := start
	for ; i < len(runes); i++ {
		if runes[i] == '>' {
			return id.String(), i
		}
		id.WriteRune(runes[i])
	}
	return id.String(), i - 1
}
