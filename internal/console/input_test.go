package console

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  Acme Corp  \n"))

	got, err := promptLine(r, "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got)
	assert.Contains(t, out.String(), "Name")
}

func TestPromptLine_PartialLineBeforeEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := promptLine(r, "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestPromptChoice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"explicit", "active\n", "active"},
		{"empty picks default", "\n", "prospect"},
		{"retries until valid", "bogus\ninactive\n", "inactive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := bufio.NewReader(strings.NewReader(tt.input))

			got, err := promptChoice(r, "Status", &out, "prospect", "active", "inactive")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
