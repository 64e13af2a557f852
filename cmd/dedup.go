/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/metaforge/assembly"
	"github.com/gmaffy/metaforge/utils"
	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove redundant contigs with CD-HIT-EST",
	Long: `Clusters near-identical contigs with CD-HIT-EST and keeps one
representative per cluster. Reports how many contigs were collapsed.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps("cd-hit-est"); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		contigs, iErr := cmd.Flags().GetString("input")
		if iErr != nil {
			log.Fatalf("Error getting input flag: %v", iErr)
		}

		out, oErr := cmd.Flags().GetString("out")
		if oErr != nil {
			log.Fatalf("Error getting out flag: %v", oErr)
		}

		identity, cErr := cmd.Flags().GetFloat64("identity")
		if cErr != nil {
			log.Fatalf("Error getting identity flag: %v", cErr)
		}

		wordSize, wErr := cmd.Flags().GetInt("word-size")
		if wErr != nil {
			log.Fatalf("Error getting word-size flag: %v", wErr)
		}

		threads, tErr := cmd.Flags().GetInt("threads")
		if tErr != nil {
			log.Fatalf("Error getting threads flag: %v", tErr)
		}

		memory, mErr := cmd.Flags().GetInt("memory")
		if mErr != nil {
			log.Fatalf("Error getting memory flag: %v", mErr)
		}

		if _, err := os.Stat(contigs); err != nil {
			fmt.Printf("Contigs path %s, is not valid\n", contigs)
			return
		}
		if out == "" {
			fmt.Println("Please provide an output file with flag -o ")
			return
		}

		nr, summary, err := assembly.Dedup(contigs, out, identity, wordSize, threads, memory)
		if err != nil {
			log.Fatalf("Redundancy removal failed: %v", err)
		}
		fmt.Printf("Representative contigs: %s (%d clusters from %d contigs)\n", nr, summary.Clusters, summary.Members)
	},
}

func init() {
	rootCmd.AddCommand(dedupCmd)

	dedupCmd.Flags().StringP("input", "i", "", "Path to contigs FASTA")
	dedupCmd.Flags().StringP("out", "o", "", "Path for representative contigs FASTA")
	dedupCmd.Flags().Float64P("identity", "s", 0.95, "sequence identity threshold")
	dedupCmd.Flags().IntP("word-size", "n", 10, "word size")
	dedupCmd.Flags().IntP("threads", "t", 8, "number of threads")
	dedupCmd.Flags().IntP("memory", "m", 16000, "memory limit in MB")
}
