/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/metaforge/reads"
	"github.com/spf13/cobra"
)

var mergeReadsCmd = &cobra.Command{
	Use:   "mergeReads",
	Short: "Pool per-sample paired-end reads for co-assembly",
	Long: `Concatenates forward reads from all samples into <base>_R1.fastq.gz and
reverse reads into <base>_R2.fastq.gz. Gzipped inputs are handled
transparently. With --subsample, each read pair is kept with the given
probability (mates stay together).`,
	Run: func(cmd *cobra.Command, args []string) {
		forward, fErr := cmd.Flags().GetStringSlice("forward")
		if fErr != nil {
			log.Fatalf("Error getting forward reads flag: %v", fErr)
		}

		reverse, rErr := cmd.Flags().GetStringSlice("reverse")
		if rErr != nil {
			log.Fatalf("Error getting reverse reads flag: %v", rErr)
		}

		outDir, oErr := cmd.Flags().GetString("output_dir")
		if oErr != nil {
			log.Fatalf("Error getting output dir flag: %v", oErr)
		}

		baseName, bErr := cmd.Flags().GetString("base")
		if bErr != nil {
			log.Fatalf("Error getting base name flag: %v", bErr)
		}

		subsample, sErr := cmd.Flags().GetFloat64("subsample")
		if sErr != nil {
			log.Fatalf("Error getting subsample flag: %v", sErr)
		}

		seed, seedErr := cmd.Flags().GetUint64("seed")
		if seedErr != nil {
			log.Fatalf("Error getting seed flag: %v", seedErr)
		}

		if len(forward) == 0 || len(forward) != len(reverse) {
			fmt.Println("Provide the same number of forward (-1) and reverse (-2) read files")
			return
		}
		for i := range forward {
			if _, err := os.Stat(forward[i]); err != nil {
				fmt.Printf("Forward reads path %s, is not valid\n", forward[i])
				return
			}
			if _, err := os.Stat(reverse[i]); err != nil {
				fmt.Printf("Reverse reads path %s, is not valid\n", reverse[i])
				return
			}
		}

		var pairs []reads.Pair
		for i := range forward {
			pairs = append(pairs, reads.Pair{Forward: forward[i], Reverse: reverse[i]})
		}

		fwd, rev, err := reads.MergePairs(pairs, outDir, baseName, subsample, seed)
		if err != nil {
			log.Fatalf("Merging reads failed: %v", err)
		}
		fmt.Printf("Pooled forward reads: %s\nPooled reverse reads: %s\n", fwd, rev)
	},
}

func init() {
	rootCmd.AddCommand(mergeReadsCmd)

	mergeReadsCmd.Flags().StringSliceP("forward", "1", []string{}, "Paths to forward reads (can specify multiple)")
	mergeReadsCmd.Flags().StringSliceP("reverse", "2", []string{}, "Paths to reverse reads (can specify multiple)")
	mergeReadsCmd.Flags().StringP("output_dir", "o", ".", "output directory")
	mergeReadsCmd.Flags().StringP("base", "b", "coassembly", "Base name for pooled output files")
	mergeReadsCmd.Flags().Float64P("subsample", "p", 0, "Keep each read pair with this probability (0 disables)")
	mergeReadsCmd.Flags().Uint64P("seed", "x", 42, "Subsampling RNG seed")
}
