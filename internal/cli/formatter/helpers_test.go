package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "8h 30m", FormatMinutes(510))
}

func TestFormatClock_FallsBackOnBadInput(t *testing.T) {
	assert.Equal(t, "not-a-time", FormatClock("not-a-time"))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"Date", "Worked"},
		[][]string{
			{"2025-06-16", "8h 30m"},
			{"2025-06-17", "45m"},
		},
	)
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "2025-06-16")
	assert.Contains(t, out, "8h 30m")
}
