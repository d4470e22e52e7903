package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "—"},
		{float64(12450), "12,450"},
		{float64(87.26), "87.3"},
		{float64(-1200), "-1,200"},
		{"1500", "1,500"},
		{"n/a", "n/a"},
		{42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMetric(tt.in), "%v", tt.in)
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "Yes", FormatCell(true))
	assert.Equal(t, "", FormatCell(nil))
	assert.Equal(t, "Gasabo", FormatCell(map[string]any{"id": float64(1), "name": "Gasabo"}))
	assert.Equal(t, "3 items", FormatCell([]any{1, 2, 3}))
	assert.Equal(t, "1,024", FormatCell(float64(1024)))
}

func TestColumns(t *testing.T) {
	rows := []map[string]any{{"name": "x", "id": 1, "district": "Gasabo"}}
	assert.Equal(t, []string{"id", "district", "name"}, Columns(rows))
	assert.Nil(t, Columns(nil))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Market prices", Humanize("market-prices"))
	assert.Equal(t, "Total beds", Humanize("total_beds"))
	assert.Equal(t, "ID", Humanize("id"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", TruncateText("abc", 5))
	assert.Equal(t, "ab…", TruncateText("abcdef", 3))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 0))
}
