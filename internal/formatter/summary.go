// Package formatter renders operator-facing summaries of a conversion.
package formatter

import (
	"sort"

	"github.com/bloatmap/internal/attribution"
	"github.com/bloatmap/pkg/utils"
)

// Contributor is one top-level tree entry ranked by cumulative file size.
type Contributor struct {
	Name    string
	Bytes   uint64
	Percent float64
}

// SummaryFormatter formats conversion results for the console.
type SummaryFormatter struct {
	// TopN is the number of largest contributors to print.
	TopN int
}

// NewSummaryFormatter creates a formatter with the default top-N.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{TopN: 10}
}

// TopContributors returns the largest top-level entries of the tree,
// ordered by cumulative file size descending (name ascending on ties).
func (f *SummaryFormatter) TopContributors(result *attribution.Result) []Contributor {
	root := result.Tree.Root()

	contributors := make([]Contributor, 0, len(root.Children))
	for name, child := range root.Children {
		contributors = append(contributors, Contributor{
			Name:  name,
			Bytes: child.TotalFileSize,
		})
	}
	sort.Slice(contributors, func(a, b int) bool {
		if contributors[a].Bytes != contributors[b].Bytes {
			return contributors[a].Bytes > contributors[b].Bytes
		}
		return contributors[a].Name < contributors[b].Name
	})

	if root.TotalFileSize > 0 {
		for i := range contributors {
			contributors[i].Percent =
				float64(contributors[i].Bytes) / float64(root.TotalFileSize) * 100
		}
	}

	count := f.TopN
	if count > len(contributors) {
		count = len(contributors)
	}
	return contributors[:count]
}

// Format outputs the conversion result to the logger.
func (f *SummaryFormatter) Format(result *attribution.Result, log utils.Logger) {
	log.Info("=== Conversion Results ===")
	log.Info("Records:      %d", result.Records)
	log.Info("Classified:   %d", result.Classified)
	log.Info("Unclassified: %d", result.Unclassified)
	if result.Skipped > 0 {
		log.Info("Skipped:      %d (sections excluded)", result.Skipped)
	}
	log.Info("Total bytes:  %d", result.Tree.Root().TotalFileSize)
	log.Info("")

	contributors := f.TopContributors(result)
	if len(contributors) == 0 {
		return
	}
	log.Info("=== Top Contributors ===")
	for i, c := range contributors {
		log.Info("  %2d. %6.2f%%  %12d  %s", i+1, c.Percent, c.Bytes, c.Name)
	}
	log.Info("")
}
