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

var megahitCmd = &cobra.Command{
	Use:   "megahit",
	Short: "Co-assemble pooled reads with MEGAHIT",
	Long:  `Runs MEGAHIT on pooled paired-end reads and reports the final contigs FASTA.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps("megahit"); err != nil {
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

		memory, mErr := cmd.Flags().GetFloat64("memory")
		if mErr != nil {
			log.Fatalf("Error getting memory flag: %v", mErr)
		}

		kmers, kErr := cmd.Flags().GetString("k-list")
		if kErr != nil {
			log.Fatalf("Error getting k-list flag: %v", kErr)
		}

		minLen, mlErr := cmd.Flags().GetInt("min-contig-len")
		if mlErr != nil {
			log.Fatalf("Error getting min-contig-len flag: %v", mlErr)
		}

		if _, err := os.Stat(forwardPath); err != nil {
			fmt.Printf("Forward reads path %s, is not valid\n", forwardPath)
			return
		}
		if _, err := os.Stat(reversePath); err != nil {
			fmt.Printf("Reverse reads path %s, is not valid\n", reversePath)
			return
		}

		contigs, err := assembly.RunMegahit(forwardPath, reversePath, outDir, threads, memory, kmers, minLen)
		if err != nil {
			log.Fatalf("MEGAHIT assembly failed: %v", err)
		}
		fmt.Printf("Contigs: %s\n", contigs)
	},
}

func init() {
	rootCmd.AddCommand(megahitCmd)

	megahitCmd.Flags().StringP("forward", "1", "", "Path to pooled forward reads")
	megahitCmd.Flags().StringP("reverse", "2", "", "Path to pooled reverse reads")
	megahitCmd.Flags().StringP("output_dir", "o", ".", "output directory")
	megahitCmd.Flags().IntP("threads", "t", 8, "number of threads")
	megahitCmd.Flags().Float64P("memory", "m", 0.9, "fraction of machine memory to use")
	megahitCmd.Flags().StringP("k-list", "k", "21,29,39,59,79,99,119,141", "comma-separated k-mer list")
	megahitCmd.Flags().Int("min-contig-len", 500, "minimum contig length to report")
}
