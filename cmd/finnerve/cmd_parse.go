package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genomike/finnerve/internal/corpus"
	"github.com/genomike/finnerve/internal/extract"
)

// parseCmd runs the extraction pipeline once and prints a per-record
// summary, useful for checking a corpus before viewing it.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Split and extract the corpus, printing a summary per finding",
	Long: `Acquires the corpus (network, cache, or the configured fallback file),
splits it into records, runs section extraction on every record, and prints
one summary line per finding: ordinal, title, sections found, and the
maintenance impact severity when annotated.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := newLoader(cfg, logger)
	raw, origin, err := acquireCorpus(cfg, loader)
	if err != nil {
		return err
	}
	logger.Info("corpus acquired",
		zap.String("origin", origin.String()),
		zap.Int("bytes", len(raw)))

	blocks := corpus.NewSplitter(cfg.RecordMarker, logger).Split(raw)
	if len(blocks) == 0 {
		fmt.Println("no findings matched the expected heading pattern")
		return nil
	}

	byOrdinal := corpus.IndexByOrdinal(blocks)
	ordinals := make([]int, 0, len(byOrdinal))
	for ordinal := range byOrdinal {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)

	fmt.Printf("%-4s %-40s %-10s %s\n", "#", "Title", "Severity", "Sections")
	fmt.Println(strings.Repeat("-", 78))
	for _, ordinal := range ordinals {
		rec := extract.Build(byOrdinal[ordinal])
		fmt.Printf("%-4d %-40s %-10s %s\n",
			rec.Ordinal,
			truncate(rec.Title, 40),
			severityOf(rec),
			sectionSummary(rec))
	}
	fmt.Printf("\n%d finding(s), %d distinct ordinal(s)\n", len(blocks), len(byOrdinal))
	return nil
}

func severityOf(rec extract.StructuredRecord) string {
	if frag, ok := rec.Sections[extract.LabelMaintenanceImpact]; ok {
		if frag.Severity != extract.SeverityUnknown {
			return frag.Severity.String()
		}
	}
	return "-"
}

func sectionSummary(rec extract.StructuredRecord) string {
	var parts []string
	for _, label := range extract.Labels() {
		if frag, ok := rec.Sections[label]; ok {
			parts = append(parts, fmt.Sprintf("%s(%s)", label, frag.Kind))
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
