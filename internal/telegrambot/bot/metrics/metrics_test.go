package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Commands(t *testing.T) {
	metrics := NewMetrics(zap.NewNop())

	metrics.RecordUserCommand("recent", 1)
	metrics.RecordUserCommand("recent", 2)
	metrics.RecordUserCommand("competition", 1)

	activity := metrics.GetStats()["user_activity"].(map[string]any)
	assert.Equal(t, int64(3), activity["total_commands"])
	assert.Equal(t, 2, activity["unique_users"])
	assert.Equal(t, map[string]int64{"recent": 2, "competition": 1}, activity["commands"])
}

func TestMetrics_Archive(t *testing.T) {
	metrics := NewMetrics(zap.NewNop())

	archive := metrics.GetStats()["archive"].(map[string]any)
	assert.Equal(t, "Не установлено", archive["last_snapshot"])

	metrics.RecordSnapshot(77, 3)
	metrics.RecordFiles(2, 1)
	metrics.RecordFiles(1, 0)

	archive = metrics.GetStats()["archive"].(map[string]any)
	assert.Equal(t, int64(1), archive["saved_snapshots"])
	assert.NotEqual(t, "Не установлено", archive["last_snapshot"])
	assert.Equal(t, int64(3), archive["downloaded_files"])
	assert.Equal(t, int64(1), archive["missing_files"])
}

func TestMetrics_ErrorRate(t *testing.T) {
	metrics := NewMetrics(zap.NewNop())

	performance := metrics.GetStats()["performance"].(map[string]any)
	assert.Equal(t, float64(0), performance["error_rate"])

	for range 4 {
		metrics.RecordResponseTime(100 * time.Millisecond)
	}
	metrics.RecordError()

	performance = metrics.GetStats()["performance"].(map[string]any)
	assert.Equal(t, int64(4), performance["total_requests"])
	assert.Equal(t, float64(25), performance["error_rate"])
	assert.Equal(t, "0.10s", performance["avg_response_time"])
}

func TestMetrics_FormatTime(t *testing.T) {
	metrics := NewMetrics(zap.NewNop())

	assert.Equal(t, "Не установлено", metrics.formatTime(time.Time{}))

	testTime := time.Date(2024, 12, 25, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "25.12.24 15:30", metrics.formatTime(testTime))
}

func TestMetrics_FormatDuration(t *testing.T) {
	metrics := NewMetrics(zap.NewNop())

	tests := []struct {
		duration time.Duration
		expected string
	}{
		{115556550 * time.Nanosecond, "0.12s"},
		{2*time.Minute + 6*time.Second + 665504400*time.Nanosecond, "2 мин 6 сек"},
		{0, "0.00s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, metrics.formatDuration(tt.duration))
	}
}
