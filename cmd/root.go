/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metaforge",
	Short: "A toolkit for metagenomic co-assembly",
	Long: `A metagenomic contig assembly pipeline for performing:
1.	Read merging: pools per-sample paired-end FASTQ files for co-assembly
2.	Assembly: (MEGAHIT, metaSPAdes)
3.	Redundancy removal: (CD-HIT-EST)
4.	Assembly statistics: (N50, L50, GC content, length distribution)
5.	Kingdom triage: (Kraken2)
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
}
