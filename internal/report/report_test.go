package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
)

func sampleManifest() (RunManifest, groups.Samples) {
	samples := groups.Samples{
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 6},
		{8, 9, 10, 11, 12},
	}
	comps := []groups.Comparison{
		{Pair: groups.Pair{I: 0, J: 1}, QStat: 1.41, PValue: 0.58, MeanDiff: -1, EffectSize: -0.63},
		{Pair: groups.Pair{I: 0, J: 2}, QStat: 9.90, PValue: 0.0002, MeanDiff: -7, Reject: true, EffectSize: -4.43},
		{Pair: groups.Pair{I: 1, J: 2}, QStat: 8.49, PValue: 0.0005, MeanDiff: -6, Reject: true, EffectSize: -3.79},
	}
	return NewRunManifest(samples, 0.05, comps), samples
}

func TestNewRunManifest(t *testing.T) {
	m, _ := sampleManifest()
	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, 0.05, m.Alpha)
	assert.Equal(t, []int{5, 5, 5}, m.GroupSizes)
	assert.Len(t, m.Comparisons, 3)
}

func TestManifestSubject(t *testing.T) {
	m, samples := sampleManifest()
	m.Subject = core.SubjectID("sub-012")

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, m.WriteJSON(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got RunManifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.Subject, got.Subject)

	assert.Contains(t, Markdown(m, samples), "Subject sub-012.")

	// Without a subject the manifest stays quiet about it.
	anon, _ := sampleManifest()
	assert.NotContains(t, Markdown(anon, samples), "Subject ")
	data, err = json.Marshal(anon)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "subject_id")
}

func TestManifestJSONRoundTrip(t *testing.T) {
	m, _ := sampleManifest()
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, m.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got RunManifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.GroupSizes, got.GroupSizes)
	assert.Equal(t, m.Comparisons, got.Comparisons)
}

func TestMarkdownSummary(t *testing.T) {
	m, samples := sampleManifest()
	md := Markdown(m, samples)

	assert.Contains(t, md, string(m.RunID))
	assert.Contains(t, md, "## Groups")
	assert.Contains(t, md, "## Pairwise comparisons")
	// Group 0 descriptives.
	assert.Contains(t, md, "| 0 | 5 | 3.000 | 3.000 |")

	// Comparisons come out ranked by p-value: (0,2) first.
	first := strings.Index(md, "| (0, 2) |")
	second := strings.Index(md, "| (1, 2) |")
	third := strings.Index(md, "| (0, 1) |")
	require.True(t, first > 0 && second > 0 && third > 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestWriteHTML(t *testing.T) {
	m, samples := sampleManifest()
	path := filepath.Join(t.TempDir(), "run.html")
	require.NoError(t, WriteHTML(path, m, samples))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<table>")
}

func TestExportComparisons(t *testing.T) {
	m, _ := sampleManifest()
	path := filepath.Join(t.TempDir(), "comparisons.xlsx")
	require.NoError(t, ExportComparisons(path, m.Comparisons))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
