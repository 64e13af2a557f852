package triage

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func summaryRecords(kingdomStats map[string]KingdomStats) [][]string {
	records := [][]string{{"Kingdom", "Contigs", "TotalBP", "AvgLength", "MaxLength"}}
	for _, kingdom := range Kingdoms {
		ks, ok := kingdomStats[kingdom]
		if !ok || ks.Count == 0 {
			continue
		}
		avg := float64(ks.TotalBP) / float64(ks.Count)
		records = append(records, []string{
			kingdom,
			strconv.Itoa(ks.Count),
			strconv.Itoa(ks.TotalBP),
			strconv.FormatFloat(avg, 'f', 0, 64),
			strconv.Itoa(ks.MaxLen),
		})
	}
	return records
}

// WriteSummaryCSV writes the kingdom summary as CSV via a gota dataframe.
// gota cannot load a header-only record set, so an empty summary is written
// directly.
func WriteSummaryCSV(path string, kingdomStats map[string]KingdomStats) error {
	records := summaryRecords(kingdomStats)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if len(records) == 1 {
		if _, err := fmt.Fprintln(f, strings.Join(records[0], ",")); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return fmt.Errorf("failed to build summary dataframe: %w", df.Err)
	}
	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteSummaryXLSX writes the kingdom summary as a single-sheet workbook.
func WriteSummaryXLSX(path string, kingdomStats map[string]KingdomStats) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	const sheet = "Triage"
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, record := range summaryRecords(kingdomStats) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := xlsx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := xlsx.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// PrintSummary writes the kingdom triage table in the layout the report files
// mirror.
func PrintSummary(w io.Writer, kingdomStats map[string]KingdomStats, outDir string) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "KINGDOM-LEVEL TRIAGE SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%-15s %10s %15s %12s %12s\n", "Kingdom", "Contigs", "Total BP", "Avg Length", "Max Length")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	totalContigs, totalBP := 0, 0
	for _, kingdom := range Kingdoms {
		ks, ok := kingdomStats[kingdom]
		if !ok || ks.Count == 0 {
			continue
		}
		avg := float64(ks.TotalBP) / float64(ks.Count)
		fmt.Fprintf(w, "%-15s %10d %15d %12.0f %12d\n", kingdom, ks.Count, ks.TotalBP, avg, ks.MaxLen)
		totalContigs += ks.Count
		totalBP += ks.TotalBP
	}

	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "%-15s %10d %15d\n", "TOTAL", totalContigs, totalBP)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintf(w, "\nOutput files saved in: %s/\n", outDir)
	for _, kingdom := range Kingdoms {
		if ks, ok := kingdomStats[kingdom]; ok && ks.Count > 0 {
			fmt.Fprintf(w, "  %s_contigs.fa (%d contigs)\n", strings.ToLower(kingdom), ks.Count)
		}
	}
}
