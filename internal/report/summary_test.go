package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/channelscout/internal/quota"
)

func ts(day string, hour int) time.Time {
	d, _ := time.Parse("2006-01-02", day)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestQuota_Aggregation(t *testing.T) {
	now := ts("2026-03-02", 12)
	entries := []quota.Entry{
		{Timestamp: ts("2026-03-01", 9), CallType: quota.CallSearchList, Cost: 100},
		{Timestamp: ts("2026-03-01", 10), CallType: quota.CallChannelsList, Cost: 1},
		{Timestamp: ts("2026-03-02", 8), CallType: quota.CallSearchList, Cost: 100},
		{Timestamp: ts("2026-03-02", 9), CallType: quota.CallSearchList, Cost: 100},
		{Timestamp: ts("2026-03-02", 9), CallType: quota.CallChannelsList, Cost: 1},
	}

	s := Quota(entries, now)

	assert.Equal(t, "2026-03-02", s.Today)
	assert.Equal(t, int64(201), s.TodayTotal)
	assert.Equal(t, int64(200), s.ByCallType[quota.CallSearchList])
	assert.Equal(t, int64(1), s.ByCallType[quota.CallChannelsList])

	require.Len(t, s.Days, 2)
	assert.Equal(t, DayTotal{Day: "2026-03-01", Total: 101, Calls: 2}, s.Days[0])
	assert.Equal(t, DayTotal{Day: "2026-03-02", Total: 201, Calls: 3}, s.Days[1])
}

func TestQuota_WriteText(t *testing.T) {
	s := Quota([]quota.Entry{
		{Timestamp: ts("2026-03-02", 8), CallType: quota.CallSearchList, Cost: 100},
	}, ts("2026-03-02", 12))

	var buf bytes.Buffer
	s.WriteText(&buf)
	out := buf.String()
	assert.Contains(t, out, "Quota spend for 2026-03-02: 100 units")
	assert.Contains(t, out, "search.list")
}

type fixedProgress struct {
	units, channels int
}

func (f fixedProgress) CompletedCount() int { return f.units }
func (f fixedProgress) SeenCount() int      { return f.channels }

func TestProgress(t *testing.T) {
	p := Progress(fixedProgress{units: 5, channels: 123})
	assert.Equal(t, 5, p.CompletedUnits)
	assert.Equal(t, 123, p.SeenChannels)

	var buf bytes.Buffer
	p.WriteText(&buf)
	assert.Contains(t, buf.String(), "Known channels:  123")
}

func TestRouter(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.csv")
	l, err := quota.Open(ledgerPath, 0)
	require.NoError(t, err)
	require.NoError(t, l.Record(quota.CallSearchList, 100))

	router := NewRouter(RouterConfig{
		LedgerPath: ledgerPath,
		Progress:   fixedProgress{units: 2, channels: 7},
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("quota", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quota", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var s QuotaSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, int64(100), s.TodayTotal)
	})

	t.Run("progress", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var p ProgressSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, 2, p.CompletedUnits)
		assert.Equal(t, 7, p.SeenChannels)
	})
}
