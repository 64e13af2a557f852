package pipeline

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gmaffy/metaforge/assembly"
	"github.com/gmaffy/metaforge/reads"
	"github.com/gmaffy/metaforge/stats"
	"github.com/gmaffy/metaforge/triage"
	"github.com/gmaffy/metaforge/utils"
)

const (
	defaultMegahitKmers = "21,29,39,59,79,99,119,141"
	defaultSpadesKmers  = "21,33,55,77"
	megahitMemFraction  = 0.9
	defaultMinContigLen = 500
	defaultIdentity     = 0.95
	defaultWordSize     = 10
	defaultMemoryGB     = 128
	defaultConfidence   = 0.1
	defaultThreads      = 8
	dedupMemoryMB       = 16000
)

type Options struct {
	Pairs             []reads.Pair
	OutDir            string
	BaseName          string
	Assembler         string
	Threads           int
	MemoryGB          int
	KmerList          string
	MinContigLen      int
	Identity          float64
	WordSize          int
	KrakenDB          string
	Confidence        float64
	Subsample         float64
	Seed              uint64
	Triage            bool
	KeepIntermediates bool
}

// FromConfig turns the plain-text config into typed options, applying the
// pipeline defaults for anything left unset.
func FromConfig(cfg utils.Config) (Options, error) {
	opt := Options{
		OutDir:       cfg.OutputDir,
		BaseName:     cfg.BaseName,
		Assembler:    cfg.Assembler,
		KmerList:     cfg.KmerList,
		KrakenDB:     cfg.KrakenDB,
		Threads:      defaultThreads,
		MemoryGB:     defaultMemoryGB,
		MinContigLen: defaultMinContigLen,
		Identity:     defaultIdentity,
		WordSize:     defaultWordSize,
		Confidence:   defaultConfidence,
	}

	if opt.Assembler == "" {
		opt.Assembler = "megahit"
	}
	if opt.BaseName == "" {
		opt.BaseName = "coassembly"
	}

	for _, pair := range cfg.ReadPairs {
		if len(pair) < 2 {
			return Options{}, fmt.Errorf("read pair is wrongly formatted %v, supply reads as: ReadPair: <fwd reads> <rev reads> [sample name]", pair)
		}
		p := reads.Pair{Forward: pair[0], Reverse: pair[1]}
		if len(pair) > 2 {
			p.Sample = pair[2]
		}
		opt.Pairs = append(opt.Pairs, p)
	}

	var err error
	if cfg.Threads != "" {
		if opt.Threads, err = strconv.Atoi(cfg.Threads); err != nil {
			return Options{}, fmt.Errorf("bad threads value %q: %w", cfg.Threads, err)
		}
	}
	if cfg.MemoryGB != "" {
		if opt.MemoryGB, err = strconv.Atoi(cfg.MemoryGB); err != nil {
			return Options{}, fmt.Errorf("bad memory_gb value %q: %w", cfg.MemoryGB, err)
		}
	}
	if cfg.MinContigLen != "" {
		if opt.MinContigLen, err = strconv.Atoi(cfg.MinContigLen); err != nil {
			return Options{}, fmt.Errorf("bad min_contig_len value %q: %w", cfg.MinContigLen, err)
		}
	}
	if cfg.Identity != "" {
		if opt.Identity, err = strconv.ParseFloat(cfg.Identity, 64); err != nil {
			return Options{}, fmt.Errorf("bad identity value %q: %w", cfg.Identity, err)
		}
	}
	if cfg.WordSize != "" {
		if opt.WordSize, err = strconv.Atoi(cfg.WordSize); err != nil {
			return Options{}, fmt.Errorf("bad word_size value %q: %w", cfg.WordSize, err)
		}
	}
	if cfg.Confidence != "" {
		if opt.Confidence, err = strconv.ParseFloat(cfg.Confidence, 64); err != nil {
			return Options{}, fmt.Errorf("bad confidence value %q: %w", cfg.Confidence, err)
		}
	}
	if cfg.Subsample != "" {
		if opt.Subsample, err = strconv.ParseFloat(cfg.Subsample, 64); err != nil {
			return Options{}, fmt.Errorf("bad subsample value %q: %w", cfg.Subsample, err)
		}
	}
	if cfg.Seed != "" {
		if opt.Seed, err = strconv.ParseUint(cfg.Seed, 10, 64); err != nil {
			return Options{}, fmt.Errorf("bad seed value %q: %w", cfg.Seed, err)
		}
	}
	opt.Triage = cfg.Triage == "true" || cfg.Triage == "yes"
	opt.KeepIntermediates = cfg.KeepIntermediates == "true" || cfg.KeepIntermediates == "yes"

	return opt, nil
}

func (opt Options) assemblers() []string {
	if opt.Assembler == "both" {
		return []string{"megahit", "metaspades"}
	}
	return []string{opt.Assembler}
}

func (opt Options) kmerList(assembler string) string {
	if opt.KmerList != "" {
		return opt.KmerList
	}
	if assembler == "metaspades" {
		return defaultSpadesKmers
	}
	return defaultMegahitKmers
}

// Run drives the whole co-assembly pipeline sequentially: merge reads,
// assemble, remove redundancy, compute statistics and optionally triage by
// kingdom. Every stage writes STARTED/COMPLETED entries to a JSON run log in
// the output directory; on rerun, stages already marked COMPLETED are
// skipped.
func Run(opt Options) error {
	if len(opt.Pairs) == 0 {
		return fmt.Errorf("no read pairs configured")
	}
	for _, a := range opt.assemblers() {
		if a != "megahit" && a != "metaspades" {
			return fmt.Errorf("unknown assembler %q (use megahit, metaspades or both)", a)
		}
	}
	if err := os.MkdirAll(opt.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", opt.OutDir, err)
	}

	logFilePath := filepath.Join(opt.OutDir, "pipeline.log")
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	previous := utils.ParseLogFile(logFilePath)

	logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "initialise", "TARGET", opt.BaseName, "STATUS", "STARTED")

	// ============================================= Merge reads ================================================== //
	fwd := filepath.Join(opt.OutDir, opt.BaseName+"_R1.fastq.gz")
	rev := filepath.Join(opt.OutDir, opt.BaseName+"_R2.fastq.gz")
	if utils.StageHasCompleted(previous, "mergeReads", opt.BaseName) {
		logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "mergeReads", "TARGET", opt.BaseName, "STATUS", "SKIPPED")
		fmt.Println("Skipping read merge (already completed)")
	} else {
		logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "mergeReads", "TARGET", opt.BaseName, "STATUS", "STARTED")
		fmt.Printf("Merging %d read pairs ...\n", len(opt.Pairs))
		if fwd, rev, err = reads.MergePairs(opt.Pairs, opt.OutDir, opt.BaseName, opt.Subsample, opt.Seed); err != nil {
			logger.Error("CO-ASSEMBLY PIPELINE", "STAGE", "mergeReads", "TARGET", opt.BaseName, "STATUS", "FAILED", "error", err.Error())
			return err
		}
		logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "mergeReads", "TARGET", opt.BaseName, "STATUS", "COMPLETED")
	}

	// ====================================== Assemble, dedup, stats, triage ===================================== //
	for _, assembler := range opt.assemblers() {
		contigs, err := opt.runAssembler(assembler, fwd, rev, logger, previous)
		if err != nil {
			return err
		}

		nrContigs := filepath.Join(opt.OutDir, assembler+"_contigs.nr.fa")
		if utils.StageHasCompleted(previous, "dedup", assembler) {
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "dedup", "TARGET", assembler, "STATUS", "SKIPPED")
			fmt.Println("Skipping redundancy removal (already completed)")
		} else {
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "dedup", "TARGET", assembler, "STATUS", "STARTED")
			if _, _, err := assembly.Dedup(contigs, nrContigs, opt.Identity, opt.WordSize, opt.Threads, dedupMemoryMB); err != nil {
				logger.Error("CO-ASSEMBLY PIPELINE", "STAGE", "dedup", "TARGET", assembler, "STATUS", "FAILED", "error", err.Error())
				return err
			}
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "dedup", "TARGET", assembler, "STATUS", "COMPLETED")
		}

		if utils.StageHasCompleted(previous, "stats", assembler) {
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "stats", "TARGET", assembler, "STATUS", "SKIPPED")
			fmt.Println("Skipping assembly statistics (already completed)")
		} else {
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "stats", "TARGET", assembler, "STATUS", "STARTED")
			if err := opt.writeStats(assembler, nrContigs); err != nil {
				logger.Error("CO-ASSEMBLY PIPELINE", "STAGE", "stats", "TARGET", assembler, "STATUS", "FAILED", "error", err.Error())
				return err
			}
			logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "stats", "TARGET", assembler, "STATUS", "COMPLETED")
		}

		if opt.Triage {
			if opt.KrakenDB == "" {
				return fmt.Errorf("triage requested but no kraken_db configured")
			}
			if utils.StageHasCompleted(previous, "triage", assembler) {
				logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "triage", "TARGET", assembler, "STATUS", "SKIPPED")
				fmt.Println("Skipping kingdom triage (already completed)")
			} else {
				logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "triage", "TARGET", assembler, "STATUS", "STARTED")
				triageDir := filepath.Join(opt.OutDir, assembler+"_kingdom_triage")
				if err := triage.Run(nrContigs, opt.KrakenDB, triageDir, opt.Threads, opt.Confidence, opt.KeepIntermediates); err != nil {
					logger.Error("CO-ASSEMBLY PIPELINE", "STAGE", "triage", "TARGET", assembler, "STATUS", "FAILED", "error", err.Error())
					return err
				}
				logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "triage", "TARGET", assembler, "STATUS", "COMPLETED")
			}
		}
	}

	logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "initialise", "TARGET", opt.BaseName, "STATUS", "COMPLETED")
	fmt.Println("Pipeline finished.")
	return nil
}

func (opt Options) runAssembler(assembler string, fwd string, rev string, logger *slog.Logger, previous []utils.LogEntry) (string, error) {
	var contigs string
	if assembler == "metaspades" {
		contigs = filepath.Join(opt.OutDir, "metaspades", "contigs.fasta")
	} else {
		contigs = filepath.Join(opt.OutDir, "megahit", "final.contigs.fa")
	}

	if utils.StageHasCompleted(previous, "assemble", assembler) {
		logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "assemble", "TARGET", assembler, "STATUS", "SKIPPED")
		fmt.Printf("Skipping %s assembly (already completed)\n", assembler)
		if _, err := os.Stat(contigs); err != nil {
			return "", fmt.Errorf("%s marked completed but %s is missing: %w", assembler, contigs, err)
		}
		return contigs, nil
	}

	logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "assemble", "TARGET", assembler, "STATUS", "STARTED")
	var err error
	if assembler == "metaspades" {
		contigs, err = assembly.RunMetaspades(fwd, rev, opt.OutDir, opt.Threads, opt.MemoryGB, opt.kmerList(assembler))
	} else {
		contigs, err = assembly.RunMegahit(fwd, rev, opt.OutDir, opt.Threads, megahitMemFraction, opt.kmerList(assembler), opt.MinContigLen)
	}
	if err != nil {
		logger.Error("CO-ASSEMBLY PIPELINE", "STAGE", "assemble", "TARGET", assembler, "STATUS", "FAILED", "error", err.Error())
		return "", err
	}
	logger.Info("CO-ASSEMBLY PIPELINE", "STAGE", "assemble", "TARGET", assembler, "STATUS", "COMPLETED")
	return contigs, nil
}

func (opt Options) writeStats(assembler string, contigs string) error {
	records, err := stats.ReadFasta(contigs)
	if err != nil {
		return err
	}
	s := stats.Compute(records)
	if s.Contigs == 0 {
		log.Printf("No contigs found in %s", contigs)
	}

	reportPath := filepath.Join(opt.OutDir, assembler+"_assembly_stats.txt")
	report, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", reportPath, err)
	}
	defer report.Close()

	if err := stats.WriteReport(report, filepath.Base(contigs), s); err != nil {
		return err
	}
	fmt.Printf("Stats written to %s\n", reportPath)

	htmlPath := strings.TrimSuffix(reportPath, ".txt") + ".html"
	if err := stats.WriteHTMLReport(htmlPath, filepath.Base(contigs), s); err != nil {
		return err
	}
	fmt.Printf("Length distribution chart written to %s\n", htmlPath)
	return nil
}
