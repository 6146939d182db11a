package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/channelscout/internal/domain"
)

func testChannel(id string) domain.Channel {
	return domain.Channel{
		ID:                id,
		Title:             "Channel " + id,
		PublishedAt:       time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		VideoCount:        10,
		SubscriberCount:   100,
		ViewCount:         1000,
		Country:           "US",
		DiscoveryMethod:   "hello|en|base",
		DiscoveryLanguage: "en",
		DiscoveryKeyword:  "hello",
		DiscoveredAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		RunID:             "run-1",
	}
}

func TestWriter_AppendAndRead(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	w, err := NewWriter(dir, day)
	require.NoError(t, err)
	require.NoError(t, w.Append(testChannel("UC1")))
	require.NoError(t, w.Append(testChannel("UC2")))
	require.NoError(t, w.Close())

	assert.Equal(t, filepath.Join(dir, "discovered_2026-03-01.csv"), w.Path())

	f, err := os.Open(w.Path())
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "UC1", rows[1][0])
	assert.Equal(t, "hello|en|base", rows[1][7])
	assert.Equal(t, "run-1", rows[1][11])
}

func TestWriter_ReopenDoesNotDuplicateHeader(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	w, err := NewWriter(dir, day)
	require.NoError(t, err)
	require.NoError(t, w.Append(testChannel("UC1")))
	require.NoError(t, w.Close())

	w2, err := NewWriter(dir, day)
	require.NoError(t, err)
	require.NoError(t, w2.Append(testChannel("UC2")))
	require.NoError(t, w2.Close())

	ids, err := ScanChannelIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UC1", "UC2"}, ids)
}

func TestScanChannelIDs_AcrossFiles(t *testing.T) {
	dir := t.TempDir()

	w1, err := NewWriter(dir, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, w1.Append(testChannel("UCa")))
	require.NoError(t, w1.Close())

	w2, err := NewWriter(dir, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, w2.Append(testChannel("UCb")))
	require.NoError(t, w2.Append(testChannel("UCc")))
	require.NoError(t, w2.Close())

	ids, err := ScanChannelIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UCa", "UCb", "UCc"}, ids)
}

func TestScanChannelIDs_HeaderlessLegacyFile(t *testing.T) {
	dir := t.TempDir()
	// Output produced before the checkpoint mechanism existed carried no
	// header; the scan must still pick up its identifiers.
	legacy := "UCold1,Old One\nUCold2,Old Two\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channels_legacy.csv"), []byte(legacy), 0644))

	ids, err := ScanChannelIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UCold1", "UCold2"}, ids)
}

func TestScanChannelIDs_SkipsStatsAndVideoFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, w.Append(testChannel("UC1")))
	require.NoError(t, w.Append(testChannel("UC2")))
	require.NoError(t, w.Close())

	// Stats and video inventories live in the same directory but are
	// derived from the cohort; scanning them back would double-count
	// channels and mistake video IDs for channel IDs.
	stats := "channel_id,observed_at,subscriber_count,view_count,video_count\n" +
		"UC1,2026-03-01T00:00:00Z,100,1000,10\n" +
		"UC2,2026-03-01T00:00:00Z,200,2000,20\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats_2026-03-01.csv"), []byte(stats), 0644))

	vids := "video_id,channel_id,title,published_at,position\n" +
		"vAAAA,UC1,First,2023-05-01T00:00:00Z,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "videos_2026-03-01.csv"), []byte(vids), 0644))

	ids, err := ScanChannelIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UC1", "UC2"}, ids)
}

func TestScanChannelIDs_DeduplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channels_a.csv"), []byte("UC1,One\nUC2,Two\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channels_b.csv"), []byte("UC2,Two\nUC3,Three\n"), 0644))

	ids, err := ScanChannelIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UC1", "UC2", "UC3"}, ids)
}

func TestScanChannelIDs_EmptyDir(t *testing.T) {
	ids, err := ScanChannelIDs(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
