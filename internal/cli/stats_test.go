package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/channelscout/internal/config"
)

func TestCohortIDs_DefaultScanIgnoresDerivedFiles(t *testing.T) {
	dir := t.TempDir()

	discovered := "channel_id,title,published_at,video_count,subscriber_count,view_count,country,discovery_method,discovery_language,discovery_keyword,discovered_at,run_id\n" +
		"UC1,One,2023-05-01T00:00:00Z,10,100,1000,US,k|en|base,en,k,2026-03-01T00:00:00Z,run-1\n" +
		"UC2,Two,2023-05-01T00:00:00Z,10,100,1000,US,k|en|base,en,k,2026-03-01T00:00:00Z,run-1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "discovered_2026-03-01.csv"), []byte(discovered), 0644))

	// Earlier snapshot and inventory runs leave their own CSVs in the
	// output directory; the default cohort must not re-ingest them.
	stats := "channel_id,observed_at,subscriber_count,view_count,video_count\n" +
		"UC1,2026-03-01T00:00:00Z,100,1000,10\n" +
		"UC2,2026-03-01T00:00:00Z,100,1000,10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats_2026-03-01.csv"), []byte(stats), 0644))

	vids := "video_id,channel_id,title,published_at,position\n" +
		"vAAAA,UC1,First,2023-05-01T00:00:00Z,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "videos_2026-03-01.csv"), []byte(vids), 0644))

	ids, err := cohortIDs(&config.Config{OutputDir: dir}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"UC1", "UC2"}, ids)
}

func TestCohortIDs_ExplicitFileWins(t *testing.T) {
	dir := t.TempDir()
	idsPath := filepath.Join(dir, "cohort.csv")
	require.NoError(t, os.WriteFile(idsPath, []byte("channel_id\nUC9\n"), 0644))

	ids, err := cohortIDs(&config.Config{OutputDir: dir}, idsPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"UC9"}, ids)
}
