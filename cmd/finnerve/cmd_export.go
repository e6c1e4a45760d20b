package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genomike/finnerve/internal/corpus"
	"github.com/genomike/finnerve/internal/extract"
)

var exportOut string

// exportCmd materializes the structured records as a JSON report.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Extract the corpus and write the structured records as JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
}

// exportedSection mirrors a Fragment in JSON-friendly form.
type exportedSection struct {
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Items    []string `json:"items,omitempty"`
	Lang     string   `json:"lang,omitempty"`
	Source   string   `json:"source,omitempty"`
	FilePath string   `json:"file_path,omitempty"`
	Severity string   `json:"severity,omitempty"`
	Concern  string   `json:"concern,omitempty"`
}

type exportedRecord struct {
	Ordinal  int               `json:"ordinal"`
	Title    string            `json:"title"`
	Sections []exportedSection `json:"sections"`
}

// Report is the export envelope.
type Report struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Source      string           `json:"source"`
	Records     []exportedRecord `json:"records"`
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := newLoader(cfg, logger)
	raw, origin, err := acquireCorpus(cfg, loader)
	if err != nil {
		return err
	}

	blocks := corpus.NewSplitter(cfg.RecordMarker, logger).Split(raw)
	byOrdinal := corpus.IndexByOrdinal(blocks)
	ordinals := make([]int, 0, len(byOrdinal))
	for ordinal := range byOrdinal {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)

	report := Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      origin.String(),
	}
	for _, ordinal := range ordinals {
		report.Records = append(report.Records, exportRecord(extract.Build(byOrdinal[ordinal])))
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Info("report written",
		zap.String("path", exportOut),
		zap.String("report_id", report.ID),
		zap.Int("records", len(report.Records)))
	return nil
}

func exportRecord(rec extract.StructuredRecord) exportedRecord {
	out := exportedRecord{Ordinal: rec.Ordinal, Title: rec.Title}
	for _, label := range extract.Labels() {
		frag, ok := rec.Sections[label]
		if !ok {
			continue
		}
		sec := exportedSection{
			Label:    string(label),
			Kind:     frag.Kind.String(),
			Text:     frag.Text,
			Items:    frag.Items,
			Lang:     frag.Lang,
			Source:   frag.Source,
			FilePath: frag.FilePath,
			Concern:  frag.Concern,
		}
		if frag.Severity != extract.SeverityUnknown {
			sec.Severity = frag.Severity.String()
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}
