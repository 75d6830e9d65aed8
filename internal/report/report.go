// Package report turns analysis runs into shareable artifacts: a JSON run
// manifest, a markdown/HTML summary, and an Excel comparison table.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mstats "github.com/montanaflynn/stats"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
)

// RunManifest records one post-hoc analysis run
type RunManifest struct {
	RunID       core.RunID          `json:"run_id"`
	Subject     core.SubjectID      `json:"subject_id,omitempty"`
	CreatedAt   core.Timestamp      `json:"created_at"`
	Alpha       float64             `json:"alpha"`
	GroupSizes  []int               `json:"group_sizes"`
	Comparisons []groups.Comparison `json:"comparisons"`
}

// NewRunManifest stamps a fresh manifest for the given run inputs
func NewRunManifest(samples groups.Samples, alpha float64, comps []groups.Comparison) RunManifest {
	sizes := make([]int, len(samples))
	for i, g := range samples {
		sizes[i] = len(g)
	}
	return RunManifest{
		RunID:       core.RunID(core.NewID()),
		CreatedAt:   core.Now(),
		Alpha:       alpha,
		GroupSizes:  sizes,
		Comparisons: comps,
	}
}

// WriteJSON persists the manifest
func (m RunManifest) WriteJSON(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Markdown renders the run summary: per-group descriptives followed by the
// comparisons ranked by p-value.
func Markdown(m RunManifest, samples groups.Samples) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Post-hoc analysis run %s\n\n", m.RunID)
	if m.Subject != "" {
		fmt.Fprintf(&b, "Subject %s.\n\n", m.Subject)
	}
	fmt.Fprintf(&b, "Generated %s, family-wise alpha %.2f.\n\n", m.CreatedAt, m.Alpha)

	b.WriteString("## Groups\n\n")
	b.WriteString("| Group | N | Mean | Median | SD |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for g, sample := range samples {
		mean, _ := mstats.Mean(sample)
		median, _ := mstats.Median(sample)
		sd, _ := mstats.StandardDeviationSample(sample)
		fmt.Fprintf(&b, "| %d | %d | %.3f | %.3f | %.3f |\n", g, len(sample), mean, median, sd)
	}

	b.WriteString("\n## Pairwise comparisons\n\n")
	b.WriteString("| Pair | q | p | d | Reject H0 |\n")
	b.WriteString("|---|---|---|---|---|\n")
	ranked := make([]groups.Comparison, len(m.Comparisons))
	copy(ranked, m.Comparisons)
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].PValue < ranked[b].PValue })
	for _, c := range ranked {
		fmt.Fprintf(&b, "| (%d, %d) | %.3f | %.4f | %.2f | %v |\n",
			c.I, c.J, c.QStat, c.PValue, c.EffectSize, c.Reject)
	}
	return b.String()
}

// WriteHTML renders the markdown summary to an HTML file
func WriteHTML(path string, m RunManifest, samples groups.Samples) error {
	html := markdown.ToHTML([]byte(Markdown(m, samples)), nil, nil)
	return os.WriteFile(path, html, 0o644)
}
