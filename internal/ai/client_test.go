package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json",
			in:   `{"mood_score": 0.4}`,
			want: `{"mood_score": 0.4}`,
		},
		{
			name: "json fence",
			in:   "Here you go:\n```json\n{\"mood_score\": 0.4}\n```",
			want: `{"mood_score": 0.4}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"ok\": true}\n```",
			want: `{"ok": true}`,
		},
		{
			name: "unclosed fence",
			in:   "```json\n{\"ok\": true}",
			want: `{"ok": true}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n{\"ok\": true}\n  ",
			want: `{"ok": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}
