package quota

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RunningTotal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := Open(path, 0)
	require.NoError(t, err)

	// M calls costing C units each must total exactly M*C.
	const m, c = 7, 100
	for i := 0; i < m; i++ {
		require.NoError(t, l.Record(CallSearchList, c))
	}
	assert.Equal(t, int64(m*c), l.Total())

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, m)
	assert.Equal(t, int64(m*c), entries[m-1].RunningTotal)
}

func TestLedger_TotalSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	l, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, l.Record(CallSearchList, CostSearchList))
	require.NoError(t, l.Record(CallChannelsList, CostChannelsList))

	reopened, err := Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(101), reopened.Total())
}

func TestLedger_DayRollover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := Open(path, 0)
	require.NoError(t, err)

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	l.now = func() time.Time { return yesterday }
	l.day = l.today()
	require.NoError(t, l.Record(CallSearchList, 100))
	assert.Equal(t, int64(100), l.Total())

	l.now = time.Now
	require.NoError(t, l.Record(CallSearchList, 100))
	assert.Equal(t, int64(100), l.Total())
}

func TestLedger_OverCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := Open(path, 250)
	require.NoError(t, err)

	require.NoError(t, l.Record(CallSearchList, 100))
	assert.False(t, l.OverCeiling())
	require.NoError(t, l.Record(CallSearchList, 100))
	assert.False(t, l.OverCeiling())
	require.NoError(t, l.Record(CallSearchList, 100))
	assert.True(t, l.OverCeiling())
}

func TestLedger_NoCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, l.Record(CallSearchList, 1_000_000))
	assert.False(t, l.OverCeiling())
}

func TestReadEntries_MissingFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadEntries_SkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := "timestamp,call_type,cost,running_daily_total\n" +
		"2026-03-01T10:00:00Z,search.list,100,100\n" +
		"not-a-timestamp,search.list,100,200\n" +
		"2026-03-01T10:05:00Z,channels.list,1,201\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "search.list", entries[0].CallType)
	assert.Equal(t, "channels.list", entries[1].CallType)
}
