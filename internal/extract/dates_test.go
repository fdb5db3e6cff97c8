package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"dutch month", "15 januari 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"dutch march", "1 maart 2023", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"dashes padded", "01-02-2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"slashes", "15/1/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"dots", "15.1.2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"two digit year", "15-01-24", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"iso", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"whitespace", "  15-01-2024 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"not a date", "vijftien januari", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}
