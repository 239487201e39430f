package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	userCalls    map[string]int
	channelCalls map[string]int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		userCalls:    make(map[string]int),
		channelCalls: make(map[string]int),
	}
}

func (f *fakeResolver) ResolveUser(_ context.Context, id string) string {
	f.userCalls[id]++
	return "user-" + id
}

func (f *fakeResolver) ResolveChannel(_ context.Context, id string) string {
	f.channelCalls[id]++
	return "channel-" + id
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text",
			in:   "hello world",
			want: "hello world",
		},
		{
			name: "bold and italic",
			in:   "**bold** and *italic*",
			want: "<b>bold</b> and <i>italic</i>",
		},
		{
			name: "nested bold inside italic",
			in:   "*a **b** c*",
			want: "<i>a <b>b</b> c</i>",
		},
		{
			name: "dangling italic stays open",
			in:   "trailing *",
			want: "trailing <i>",
		},
		{
			name: "dangling bold stays open",
			in:   "**never closed",
			want: "<b>never closed",
		},
		{
			name: "channel mention",
			in:   "see <#42> please",
			want: `see <span class="ping">#channel-42</span> please`,
		},
		{
			name: "user mention",
			in:   "ping <@7>!",
			want: `ping <span class="ping">@user-7</span>!`,
		},
		{
			name: "nickname mention variant",
			in:   "<@!7>",
			want: `<span class="ping">@user-7</span>`,
		},
		{
			name: "angle bracket before other character",
			in:   "1 < 2",
			want: "1 < 2",
		},
		{
			name: "angle bracket at end of input",
			in:   "compare <",
			want: "compare <",
		},
		{
			name: "newline becomes line break",
			in:   "a\nb",
			want: "a<br>b",
		},
		{
			name: "unterminated mention consumes to end",
			in:   "<@123",
			want: `<span class="ping">@user-123</span>`,
		},
		{
			name: "multibyte characters pass through",
			in:   "Gesetzänderung 🧀 *ja*",
			want: "Gesetzänderung 🧀 <i>ja</i>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(newFakeResolver())
			got := tr.Translate(context.Background(), tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_ResolvesMentionOnce(t *testing.T) {
	res := newFakeResolver()
	tr := NewTranslator(res)

	got := tr.Translate(context.Background(), "vote in <#42>")

	assert.Equal(t, `vote in <span class="ping">#channel-42</span>`, got)
	assert.Equal(t, 1, res.channelCalls["42"])
}

func TestTranslate_StateResetsPerMessage(t *testing.T) {
	tr := NewTranslator(newFakeResolver())
	ctx := context.Background()

	assert.Equal(t, "<b>open", tr.Translate(ctx, "**open"))
	// A fresh call starts with formatting state cleared.
	assert.Equal(t, "<b>still open", tr.Translate(ctx, "**still open"))
}
