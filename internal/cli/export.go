package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/adapters/storage"
	"github.com/emiliopalmerini/focusd/internal/util"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to JSON or CSV",
	Long: `Export finalized daily rollups for external analysis.

Examples:
  focusd export days --format json --output days.json
  focusd export days --format csv --output days.csv
  focusd export days --period month --archive`,
}

var exportDaysCmd = &cobra.Command{
	Use:   "days",
	Short: "Export daily rollups",
	RunE:  runExportDays,
}

// Flags
var (
	exportFormat  string
	exportOutput  string
	exportPeriod  string
	exportArchive bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportDaysCmd)

	exportDaysCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportDaysCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportDaysCmd.Flags().StringVarP(&exportPeriod, "period", "p", "all", "Time period: today, week, month, all")
	exportDaysCmd.Flags().BoolVar(&exportArchive, "archive", false, "Also store a gzipped copy in the data directory")
}

type ExportDay struct {
	Date               string  `json:"date"`
	TotalActiveSeconds int64   `json:"total_active_seconds"`
	TotalFocusSeconds  int64   `json:"total_focus_seconds"`
	DeepWorkSeconds    int64   `json:"deep_work_seconds"`
	TotalKeystrokes    int64   `json:"total_keystrokes"`
	TotalClicks        int64   `json:"total_clicks"`
	ContextSwitches    int64   `json:"context_switches"`
	FocusScore         float64 `json:"focus_score"`
}

func runExportDays(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	from := util.GetStartDateForPeriod(exportPeriod, app.Loc)
	to := time.Now().In(app.Loc).Format("2006-01-02")

	stats, err := app.Repos.Dailies.ReadRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to read daily stats: %w", err)
	}

	days := make([]ExportDay, 0, len(stats))
	for _, s := range stats {
		days = append(days, ExportDay{
			Date:               s.Date,
			TotalActiveSeconds: s.TotalActiveSeconds,
			TotalFocusSeconds:  s.TotalFocusSeconds,
			DeepWorkSeconds:    s.DeepWorkSeconds,
			TotalKeystrokes:    s.TotalKeystrokes,
			TotalClicks:        s.TotalClicks,
			ContextSwitches:    s.ContextSwitches,
			FocusScore:         s.FocusScore,
		})
	}

	var payload []byte
	switch exportFormat {
	case "json":
		payload, err = json.MarshalIndent(days, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "csv":
		payload, err = encodeDaysCSV(days)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (use json or csv)", exportFormat)
	}

	if exportArchive {
		archives, err := storage.NewArchiveStorage()
		if err != nil {
			return fmt.Errorf("failed to open archive storage: %w", err)
		}
		path, err := archives.Store(ctx, to, payload)
		if err != nil {
			return fmt.Errorf("failed to store archive: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Archived to %s\n", path)
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(append(payload, '\n'))
		return err
	}
	if err := os.WriteFile(exportOutput, payload, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	fmt.Printf("Exported %d days to %s\n", len(days), exportOutput)
	return nil
}

func encodeDaysCSV(days []ExportDay) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "total_active_seconds", "total_focus_seconds", "deep_work_seconds",
		"total_keystrokes", "total_clicks", "context_switches", "focus_score"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, d := range days {
		row := []string{
			d.Date,
			strconv.FormatInt(d.TotalActiveSeconds, 10),
			strconv.FormatInt(d.TotalFocusSeconds, 10),
			strconv.FormatInt(d.DeepWorkSeconds, 10),
			strconv.FormatInt(d.TotalKeystrokes, 10),
			strconv.FormatInt(d.TotalClicks, 10),
			strconv.FormatInt(d.ContextSwitches, 10),
			strconv.FormatFloat(d.FocusScore, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
