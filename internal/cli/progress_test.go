package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgress(&out, 3, "Exporting")

	Step(bar, "Fetching history")
	Step(bar, "")
	Step(bar, "Writing rows")

	assert.True(t, bar.IsFinished())
	require.NotEmpty(t, out.String())
	assert.Contains(t, out.String(), "3/3")
}
