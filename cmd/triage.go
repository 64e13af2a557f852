/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/metaforge/triage"
	"github.com/gmaffy/metaforge/utils"
	"github.com/spf13/cobra"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage contigs by kingdom with Kraken2",
	Long: `Classifies contigs against a Kraken2 database and splits them into
per-kingdom FASTA files (bacteria, viruses, fungi, archaea, eukaryota,
other, unclassified), with a summary table written as text, CSV and xlsx.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps("kraken2"); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		contigs, iErr := cmd.Flags().GetString("input")
		if iErr != nil {
			log.Fatalf("Error getting input flag: %v", iErr)
		}

		db, dErr := cmd.Flags().GetString("db")
		if dErr != nil {
			log.Fatalf("Error getting db flag: %v", dErr)
		}

		outDir, oErr := cmd.Flags().GetString("output_dir")
		if oErr != nil {
			log.Fatalf("Error getting output dir flag: %v", oErr)
		}

		threads, tErr := cmd.Flags().GetInt("threads")
		if tErr != nil {
			log.Fatalf("Error getting threads flag: %v", tErr)
		}

		confidence, cErr := cmd.Flags().GetFloat64("confidence")
		if cErr != nil {
			log.Fatalf("Error getting confidence flag: %v", cErr)
		}

		keep, kErr := cmd.Flags().GetBool("keep-intermediates")
		if kErr != nil {
			log.Fatalf("Error getting keep-intermediates flag: %v", kErr)
		}

		if _, err := os.Stat(contigs); err != nil {
			fmt.Printf("Contigs path %s, is not valid\n", contigs)
			return
		}
		if _, err := os.Stat(db); err != nil {
			fmt.Printf("Kraken2 database %s, is not valid\n", db)
			return
		}

		if err := triage.Run(contigs, db, outDir, threads, confidence, keep); err != nil {
			log.Fatalf("Triage failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(triageCmd)

	triageCmd.Flags().StringP("input", "i", "", "Path to contigs FASTA")
	triageCmd.Flags().StringP("db", "d", "", "Path to Kraken2 database")
	triageCmd.Flags().StringP("output_dir", "o", "kingdom_triage", "output directory")
	triageCmd.Flags().IntP("threads", "t", 8, "number of threads")
	triageCmd.Flags().Float64P("confidence", "f", 0.1, "Kraken2 confidence threshold")
	triageCmd.Flags().Bool("keep-intermediates", false, "Keep Kraken2 output files")
}
