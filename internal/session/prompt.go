package session

import (
	"strings"

	"pocketchat/pkg/types"
)

// DefaultMaxTokens bounds a single completion.
const DefaultMaxTokens = 10000

// DefaultStopWords end a completion at the turn markers of the supported model families.
var DefaultStopWords = []string{
	"</s>",
	"<|end|>",
	"user:",
	"assistant:",
	"<|im_end|>",
	"<|eot_id|>",
	"<|end▁of▁sentence|>",
}

// RenderPrompt flattens a transcript into role-prefixed lines and leaves the
// assistant turn open.
func RenderPrompt(msgs []types.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteByte('\n')
	}
	b.WriteString(string(types.RoleAssistant))
	b.WriteByte(':')
	return b.String()
}
