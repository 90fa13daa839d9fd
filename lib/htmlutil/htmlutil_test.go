package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<p>Fast <b>and</b> loud.</p>", "Fast and loud."},
		{"<div><span>nested</span> <em>tags</em></div>", "nested tags"},
		{"line<br/>break", "linebreak"},
		{"", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, PlainText(test.input), test.input)
	}
}
