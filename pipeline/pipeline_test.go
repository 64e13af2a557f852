package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmaffy/metaforge/reads"
	"github.com/gmaffy/metaforge/utils"
)

func TestFromConfigDefaults(t *testing.T) {
	cfg := utils.Config{
		OutputDir: "/data/out",
		ReadPairs: [][]string{{"/data/s1_R1.fq.gz", "/data/s1_R2.fq.gz", "s1"}},
	}

	opt, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	if opt.Assembler != "megahit" {
		t.Errorf("Assembler = %q; want megahit default", opt.Assembler)
	}
	if opt.BaseName != "coassembly" {
		t.Errorf("BaseName = %q; want coassembly default", opt.BaseName)
	}
	if opt.Threads != defaultThreads {
		t.Errorf("Threads = %d; want %d", opt.Threads, defaultThreads)
	}
	if opt.Identity != defaultIdentity {
		t.Errorf("Identity = %g; want %g", opt.Identity, defaultIdentity)
	}
	if len(opt.Pairs) != 1 || opt.Pairs[0].Sample != "s1" {
		t.Errorf("Pairs = %+v", opt.Pairs)
	}
	if opt.Triage {
		t.Error("Triage should default to off")
	}
}

func TestFromConfigParsesValues(t *testing.T) {
	cfg := utils.Config{
		OutputDir:         "/data/out",
		BaseName:          "run1",
		ReadPairs:         [][]string{{"a_R1.fq", "a_R2.fq"}},
		Assembler:         "both",
		Threads:           "32",
		MemoryGB:          "500",
		MinContigLen:      "1000",
		Identity:          "0.97",
		WordSize:          "8",
		Confidence:        "0.05",
		Subsample:         "0.25",
		Seed:              "7",
		KrakenDB:          "/db/k2",
		Triage:            "true",
		KeepIntermediates: "true",
	}

	opt, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	if opt.Threads != 32 || opt.MemoryGB != 500 || opt.MinContigLen != 1000 {
		t.Errorf("numeric options wrong: %+v", opt)
	}
	if opt.Identity != 0.97 || opt.Confidence != 0.05 || opt.Subsample != 0.25 {
		t.Errorf("float options wrong: %+v", opt)
	}
	if opt.Seed != 7 {
		t.Errorf("Seed = %d; want 7", opt.Seed)
	}
	if !opt.Triage {
		t.Error("Triage should be on")
	}
	if !opt.KeepIntermediates {
		t.Error("KeepIntermediates should be on")
	}

	assemblers := opt.assemblers()
	if len(assemblers) != 2 || assemblers[0] != "megahit" || assemblers[1] != "metaspades" {
		t.Errorf("assemblers() = %v; want [megahit metaspades]", assemblers)
	}
}

func TestFromConfigRejectsBadValues(t *testing.T) {
	cfg := utils.Config{
		ReadPairs: [][]string{{"a_R1.fq", "a_R2.fq"}},
		Threads:   "lots",
	}
	if _, err := FromConfig(cfg); err == nil {
		t.Fatal("FromConfig() should reject a non-numeric thread count")
	}

	cfg = utils.Config{ReadPairs: [][]string{{"only_forward.fq"}}}
	if _, err := FromConfig(cfg); err == nil {
		t.Fatal("FromConfig() should reject a one-file read pair")
	}
}

func TestKmerListDefaults(t *testing.T) {
	opt := Options{}
	if got := opt.kmerList("megahit"); got != defaultMegahitKmers {
		t.Errorf("kmerList(megahit) = %q; want %q", got, defaultMegahitKmers)
	}
	if got := opt.kmerList("metaspades"); got != defaultSpadesKmers {
		t.Errorf("kmerList(metaspades) = %q; want %q", got, defaultSpadesKmers)
	}

	opt.KmerList = "21,33"
	if got := opt.kmerList("megahit"); got != "21,33" {
		t.Errorf("explicit k-mer list not honored, got %q", got)
	}
}

func TestRunRejectsEmptyPairs(t *testing.T) {
	if err := Run(Options{Assembler: "megahit"}); err == nil {
		t.Fatal("Run() with no read pairs should fail")
	}
}

func TestRunSkipsCompletedStages(t *testing.T) {
	dir := t.TempDir()

	// Leftovers from a previous run: the assembler output and a run log
	// marking every stage COMPLETED.
	if err := os.MkdirAll(filepath.Join(dir, "megahit"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "megahit", "final.contigs.fa"), []byte(">c1\nACGT\n"), 0644); err != nil {
		t.Fatal(err)
	}

	logLines := []string{
		`{"level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"mergeReads","TARGET":"coassembly","STATUS":"COMPLETED"}`,
		`{"level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"assemble","TARGET":"megahit","STATUS":"COMPLETED"}`,
		`{"level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"dedup","TARGET":"megahit","STATUS":"COMPLETED"}`,
		`{"level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"stats","TARGET":"megahit","STATUS":"COMPLETED"}`,
		`{"level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"triage","TARGET":"megahit","STATUS":"COMPLETED"}`,
	}
	if err := os.WriteFile(filepath.Join(dir, "pipeline.log"), []byte(strings.Join(logLines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// The read files do not exist and no external tool is on PATH: Run can
	// only succeed if every stage, stats and triage included, is skipped.
	opt := Options{
		Pairs:     []reads.Pair{{Forward: filepath.Join(dir, "absent_R1.fq"), Reverse: filepath.Join(dir, "absent_R2.fq")}},
		OutDir:    dir,
		BaseName:  "coassembly",
		Assembler: "megahit",
		Triage:    true,
		KrakenDB:  filepath.Join(dir, "no_db_here"),
	}
	if err := Run(opt); err != nil {
		t.Fatalf("Run() should resume past completed stages, got %v", err)
	}
}
