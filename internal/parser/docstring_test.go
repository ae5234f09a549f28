package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStringLiteral(t *testing.T) {
	tests := []struct {
		lit  string
		want string
		ok   bool
	}{
		{`"plain"`, "plain", true},
		{`'single'`, "single", true},
		{`"""triple"""`, "triple", true},
		{`r"""raw \n kept"""`, `raw \n kept`, true},
		{`"tab\there"`, "tab\there", true},
		{`"quote \" inside"`, `quote " inside`, true},
		{`"unicode é"`, "unicode é", true},
		{`"unknown \d escape"`, `unknown \d escape`, true},
		{`b"bytes"`, "", false},
		{`f"{x}"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			got, ok := decodeStringLiteral(tt.lit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "  Begin transaction  ", "Begin transaction  "},
		{"common indent removed", "\n    first\n      nested\n    last\n    ", "first\n  nested\nlast"},
		{"first line kept", "Summary.\n\n    Details here.\n", "Summary.\n\nDetails here."},
		{"tabs expanded", "\n\tindented\n", "indented"},
		{"blank", "   \n  ", ""},
		{"whitespace-only line ignored for margin", "Summary.\n\v\n    Details.\n    ", "Summary.\n\nDetails."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanDoc(tt.in))
		})
	}
}
