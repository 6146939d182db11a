package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/output"
)

func writeGoodFile(t *testing.T, dir string, day time.Time, ids ...string) {
	t.Helper()
	w, err := output.NewWriter(dir, day)
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, w.Append(domain.Channel{
			ID:              id,
			Title:           "Channel " + id,
			PublishedAt:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			VideoCount:      1,
			DiscoveryMethod: "k|en|base",
		}))
	}
	require.NoError(t, w.Close())
}

func TestDir_CleanFilesPass(t *testing.T) {
	dir := t.TempDir()
	writeGoodFile(t, dir, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "UC1", "UC2")
	writeGoodFile(t, dir, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "UC3")

	report, err := Dir(dir)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 3, report.RowsChecked)
}

func TestDir_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeGoodFile(t, dir, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "UC1")
	writeGoodFile(t, dir, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "UC1")

	report, err := Dir(dir)
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Findings, 1)
	assert.Contains(t, report.Findings[0].Problem, "duplicate channel_id UC1")
	assert.Contains(t, report.Findings[0].Problem, "discovered_2026-03-01.csv")
}

func TestDir_ShortAndEmptyRows(t *testing.T) {
	dir := t.TempDir()
	header := strings.Join(output.Header, ",")
	content := header + "\n" +
		"UC1,only-two-columns\n" + // wrong column count
		"," + strings.Repeat("x,", 10) + "x\n" // empty channel_id, right width
	require.NoError(t, os.WriteFile(filepath.Join(dir, "discovered_2026-03-01.csv"), []byte(content), 0644))

	report, err := Dir(dir)
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Findings, 2)
	assert.Contains(t, report.Findings[0].Problem, "expected 12 columns")
	assert.Contains(t, report.Findings[1].Problem, "empty channel_id")
}

func TestDir_MissingHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "discovered_2026-03-01.csv"),
		[]byte("UC1,t,2023-01-01T00:00:00Z,1,0,0,,k|en|base,en,k,2026-03-01T00:00:00Z,run\n"), 0644))

	report, err := Dir(dir)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Contains(t, report.Findings[0].Problem, "header")
}

func TestDir_EmptyDir(t *testing.T) {
	report, err := Dir(t.TempDir())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.FilesChecked)
}
