/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/metaforge/pipeline"
	"github.com/gmaffy/metaforge/utils"
	"github.com/spf13/cobra"
)

var runAllCmd = &cobra.Command{
	Use:   "runAll",
	Short: "Run the full co-assembly pipeline from a config file",
	Long: `Runs the following pipeline:

1. Merge per-sample paired-end reads into pooled co-assembly inputs
2. Assemble with MEGAHIT and/or metaSPAdes
3. Remove redundant contigs with CD-HIT-EST
4. Compute assembly statistics
5. Optionally triage contigs by kingdom with Kraken2

Stages write to a JSON run log in the output directory; rerunning the same
config skips stages that already completed.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile, cErr := cmd.Flags().GetString("config")
		if cErr != nil {
			log.Fatalf("Error getting config flag: %v", cErr)
		}

		if configFile == "" {
			fmt.Println("Please provide a config file with flag -c ")
			return
		}

		fmt.Println("Reading config file ...")
		if _, err := os.Stat(configFile); err != nil {
			log.Fatalf("Error reading config file: %v", err)
		}
		cfg, err := utils.ReadConfig(configFile)
		if err != nil {
			log.Fatalf("Error reading config: %v", err)
		}

		opt, err := pipeline.FromConfig(cfg)
		if err != nil {
			log.Fatalf("Bad config: %v", err)
		}

		fmt.Printf("Checking dependencies ...\n\n")
		tools := []string{"cd-hit-est"}
		for _, a := range []string{"megahit", "metaspades"} {
			if opt.Assembler == a || opt.Assembler == "both" {
				if a == "metaspades" {
					tools = append(tools, "metaspades.py")
				} else {
					tools = append(tools, a)
				}
			}
		}
		if opt.Triage {
			tools = append(tools, "kraken2")
		}
		if err := utils.CheckDeps(tools...); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		if err := pipeline.Run(opt); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runAllCmd)
}
