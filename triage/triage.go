package triage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/gmaffy/metaforge/stats"
	"github.com/gmaffy/metaforge/utils"
)

// Kingdoms lists the triage bins in report order.
var Kingdoms = []string{"Bacteria", "Viruses", "Fungi", "Archaea", "Eukaryota", "Other", "Unclassified"}

// kingdomKeywords maps taxonomy-string fragments to kingdoms. Order matters:
// the first kingdom with a matching keyword wins.
var kingdomKeywords = []struct {
	kingdom  string
	keywords []string
}{
	{"Bacteria", []string{"Bacteria", "bacterium"}},
	{"Viruses", []string{"Viruses", "Virus", "viridae", "virus", "phage", "Phage"}},
	{"Fungi", []string{"Fungi", "fungus", "mycota"}},
	{"Archaea", []string{"Archaea", "archaeon"}},
	{"Eukaryota", []string{"Eukaryota", "Metazoa", "Viridiplantae", "Protista"}},
}

// KingdomStats aggregates the contigs assigned to one kingdom.
type KingdomStats struct {
	Count   int
	TotalBP int
	MaxLen  int
}

// RunKraken2 classifies contigs against a Kraken2 database and returns the
// paths of the raw output and report files.
func RunKraken2(contigs string, db string, outDir string, threads int, confidence float64) (string, string, error) {
	fmt.Printf("Running Kraken2 with database: %s\n", db)
	fmt.Printf("Confidence threshold: %g\n", confidence)

	base := strings.TrimSuffix(filepath.Base(contigs), filepath.Ext(contigs))
	outputFile := filepath.Join(outDir, base+"_kraken2.out")
	reportFile := filepath.Join(outDir, base+"_kraken2.report")

	cmdStr := fmt.Sprintf(`kraken2 --db %s --threads %d --output %s --report %s --confidence %g %s`,
		db, threads, outputFile, reportFile, confidence, contigs)
	fmt.Println(cmdStr)
	if err := utils.RunBashCmdVerbose(cmdStr); err != nil {
		return "", "", fmt.Errorf("kraken2 failed: %w", err)
	}

	return outputFile, reportFile, nil
}

// ParseKrakenOutput maps contig IDs to kingdoms from Kraken2's per-sequence
// output (status, sequence ID, taxonomy, tab separated).
func ParseKrakenOutput(r io.Reader) (map[string]string, error) {
	assignments := make(map[string]string)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		parts := strings.Split(strings.TrimSpace(sc.Text()), "\t")
		if len(parts) < 3 {
			continue
		}
		status, contigID, taxonomy := parts[0], parts[1], parts[2]

		if status == "U" {
			assignments[contigID] = "Unclassified"
			continue
		}
		assignments[contigID] = kingdomFor(taxonomy)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func kingdomFor(taxonomy string) string {
	for _, entry := range kingdomKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(taxonomy, kw) {
				return entry.kingdom
			}
		}
	}
	return "Other"
}

// SplitByKingdom writes one FASTA per kingdom under outDir and returns
// per-kingdom aggregates. Contigs without an assignment fall into
// Unclassified.
func SplitByKingdom(contigs string, assignments map[string]string, outDir string) (map[string]KingdomStats, error) {
	records, err := stats.ReadFasta(contigs)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	writers := make(map[string]*fasta.Writer)
	files := make(map[string]*os.File)
	for _, kingdom := range Kingdoms {
		path := filepath.Join(outDir, strings.ToLower(kingdom)+"_contigs.fa")
		f, err := os.Create(path)
		if err != nil {
			for _, open := range files {
				open.Close()
			}
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		files[kingdom] = f
		writers[kingdom] = fasta.NewWriter(f, 60)
	}

	fmt.Println("Writing kingdom-specific FASTA files ...")
	kingdomStats := make(map[string]KingdomStats)
	for _, rec := range records {
		kingdom, ok := assignments[rec.ID]
		if !ok {
			kingdom = "Unclassified"
		}

		seq := linear.NewSeq(rec.ID, alphabet.BytesToLetters([]byte(rec.Seq)), alphabet.DNA)
		if _, err := writers[kingdom].Write(seq); err != nil {
			for _, open := range files {
				open.Close()
			}
			return nil, fmt.Errorf("failed writing %s contig %s: %w", kingdom, rec.ID, err)
		}

		ks := kingdomStats[kingdom]
		ks.Count++
		ks.TotalBP += len(rec.Seq)
		if len(rec.Seq) > ks.MaxLen {
			ks.MaxLen = len(rec.Seq)
		}
		kingdomStats[kingdom] = ks
	}

	for _, f := range files {
		if err := f.Close(); err != nil {
			return nil, err
		}
	}

	return kingdomStats, nil
}

// Run drives the whole triage: Kraken2, output parsing, kingdom split and
// summary files. Intermediate Kraken2 files are removed unless asked to keep.
func Run(contigs string, db string, outDir string, threads int, confidence float64, keepIntermediates bool) error {
	if _, err := os.Stat(contigs); err != nil {
		return fmt.Errorf("contigs %s: %w", contigs, err)
	}
	if _, err := os.Stat(db); err != nil {
		return fmt.Errorf("kraken2 database %s: %w", db, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	krakenOut, krakenReport, err := RunKraken2(contigs, db, outDir, threads, confidence)
	if err != nil {
		return err
	}

	fmt.Println("Parsing Kraken2 results ...")
	outFile, err := os.Open(krakenOut)
	if err != nil {
		return fmt.Errorf("kraken2 output %s: %w", krakenOut, err)
	}
	assignments, err := ParseKrakenOutput(outFile)
	outFile.Close()
	if err != nil {
		return fmt.Errorf("failed parsing kraken2 output: %w", err)
	}

	kingdomStats, err := SplitByKingdom(contigs, assignments, outDir)
	if err != nil {
		return err
	}

	PrintSummary(os.Stdout, kingdomStats, outDir)
	if err := WriteSummaryCSV(filepath.Join(outDir, "triage_summary.csv"), kingdomStats); err != nil {
		return err
	}
	if err := WriteSummaryXLSX(filepath.Join(outDir, "triage_summary.xlsx"), kingdomStats); err != nil {
		return err
	}

	if !keepIntermediates {
		os.Remove(krakenOut)
		os.Remove(krakenReport)
		fmt.Println("Intermediate Kraken2 files removed.")
	} else {
		fmt.Printf("Kraken2 output: %s\nKraken2 report: %s\n", krakenOut, krakenReport)
	}

	return nil
}
