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

var metaspadesCmd = &cobra.Command{
	Use:   "metaspades",
	Short: "Co-assemble pooled reads with metaSPAdes",
	Long:  `Runs metaspades.py on pooled paired-end reads and reports the contigs FASTA.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps("metaspades.py"); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		forwardPath, fErr := cmd.Flags().GetString("forward")
		if fErr != nil {
			log.Fatalf("Error getting forward reads flag: %v", fErr)
		}

		reversePath, rErr := cmd.Flags().GetString("reverse")
		if rErr != nil {
			log.Fatalf("Error getting reverse reads flag: %v", rErr)
		}

		outDir, oErr := cmd.Flags().GetString("output_dir")
		if oErr != nil {
			log.Fatalf("Error getting output dir flag: %v", oErr)
		}

		threads, tErr := cmd.Flags().GetInt("threads")
		if tErr != nil {
			log.Fatalf("Error getting threads flag: %v", tErr)
		}

		memory, mErr := cmd.Flags().GetInt("memory")
		if mErr != nil {
			log.Fatalf("Error getting memory flag: %v", mErr)
		}

		kmers, kErr := cmd.Flags().GetString("k-list")
		if kErr != nil {
			log.Fatalf("Error getting k-list flag: %v", kErr)
		}

		if _, err := os.Stat(forwardPath); err != nil {
			fmt.Printf("Forward reads path %s, is not valid\n", forwardPath)
			return
		}
		if _, err := os.Stat(reversePath); err != nil {
			fmt.Printf("Reverse reads path %s, is not valid\n", reversePath)
			return
		}

		contigs, err := assembly.RunMetaspades(forwardPath, reversePath, outDir, threads, memory, kmers)
		if err != nil {
			log.Fatalf("metaSPAdes assembly failed: %v", err)
		}
		fmt.Printf("Contigs: %s\n", contigs)
	},
}

func init() {
	rootCmd.AddCommand(metaspadesCmd)

	metaspadesCmd.Flags().StringP("forward", "1", "", "Path to pooled forward reads")
	metaspadesCmd.Flags().StringP("reverse", "2", "", "Path to pooled reverse reads")
	metaspadesCmd.Flags().StringP("output_dir", "o", ".", "output directory")
	metaspadesCmd.Flags().IntP("threads", "t", 8, "number of threads")
	metaspadesCmd.Flags().IntP("memory", "m", 128, "RAM limit in GB")
	metaspadesCmd.Flags().StringP("k-list", "k", "21,33,55,77", "comma-separated k-mer list")
}
