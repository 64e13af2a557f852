/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gmaffy/metaforge/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute assembly statistics for a contigs FASTA",
	Long: `Parses a (optionally gzipped) multi-FASTA file and prints assembly
metrics to stdout: contig count, total bases, longest/shortest contig,
mean/median length, N50, L50, GC content and a length distribution table.
Redirect stdout to keep the report.`,
	Run: func(cmd *cobra.Command, args []string) {
		fastaFile, fErr := cmd.Flags().GetString("input")
		if fErr != nil {
			log.Fatalf("Error getting input flag: %v", fErr)
		}

		htmlPath, hErr := cmd.Flags().GetString("html")
		if hErr != nil {
			log.Fatalf("Error getting html flag: %v", hErr)
		}

		if fastaFile == "" {
			fmt.Println("Please provide a FASTA file with flag -i ")
			os.Exit(1)
		}

		records, err := stats.ReadFasta(fastaFile)
		if err != nil {
			log.Fatalf("Failed to read FASTA: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No contigs found!")
		}

		s := stats.Compute(records)
		if err := stats.WriteReport(os.Stdout, filepath.Base(fastaFile), s); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}

		if htmlPath != "" {
			if err := stats.WriteHTMLReport(htmlPath, filepath.Base(fastaFile), s); err != nil {
				log.Fatalf("Failed to write HTML report: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Length distribution chart written to %s\n", htmlPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("input", "i", "", "Path to contigs FASTA (.fa or .fa.gz)")
	statsCmd.Flags().String("html", "", "Also render a length distribution chart to this HTML file")
}
