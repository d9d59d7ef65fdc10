// Package stats contains practice history calculations and reporting.
package stats

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/tuispeak/internal/evaluator"
	"github.com/verte-zerg/tuispeak/internal/model"
)

const terminalWidthBackup = 80

// RecordSource yields practice records, newest first.
type RecordSource interface {
	Records(ctx context.Context, q evaluator.RecordsQuery) ([]model.PracticeRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	// Records are ordered oldest to newest.
	Records []model.PracticeRecord
}

// BuildReport loads records and orders them chronologically.
func BuildReport(ctx context.Context, src RecordSource, cfg model.HistoryConfig) (Report, error) {
	records, err := src.Records(ctx, evaluator.RecordsQuery{Limit: cfg.Last, Topic: cfg.Topic, Since: cfg.Since})
	if err != nil {
		return Report{}, err
	}
	ordered := make([]model.PracticeRecord, len(records))
	for i, r := range records {
		ordered[len(records)-1-i] = r
	}
	return Report{Records: ordered}, nil
}

// Render writes the full history report sized to width columns.
func (r Report) Render(w io.Writer, cfg model.HistoryConfig, width int) error {
	if width <= 0 {
		width = terminalWidthBackup
	}
	if err := RenderSummary(w, r.Records); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		return nil
	}
	if err := RenderTrend(w, r.Records, cfg.CurveWindow, width-2); err != nil {
		return err
	}
	if cfg.Topic == "" {
		if err := RenderTopicTable(w, r.Records); err != nil {
			return err
		}
	}
	// Fixed columns take roughly 45 cells.
	return RenderRecordTable(w, r.Records, width-45)
}

// TerminalWidth returns the width of the terminal behind f, or a fallback.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
