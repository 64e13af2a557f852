package utils

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Config struct {
	OutputDir    string
	BaseName     string
	ReadPairs    [][]string
	Assembler    string
	Threads      string
	MemoryGB     string
	KmerList     string
	MinContigLen string
	Identity     string
	WordSize     string
	KrakenDB     string
	Confidence   string
	Subsample    string
	Seed         string
	Triage       string

	KeepIntermediates string
}

func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "OutputDir":
			cfg.OutputDir = value
		case "BaseName":
			cfg.BaseName = value
		case "ReadPair":
			pairs := strings.Fields(value)
			cfg.ReadPairs = append(cfg.ReadPairs, pairs)
		case "Assembler":
			cfg.Assembler = value
		case "threads":
			cfg.Threads = value
		case "memory_gb":
			cfg.MemoryGB = value
		case "kmer_list":
			cfg.KmerList = value
		case "min_contig_len":
			cfg.MinContigLen = value
		case "identity":
			cfg.Identity = value
		case "word_size":
			cfg.WordSize = value
		case "kraken_db":
			cfg.KrakenDB = value
		case "confidence":
			cfg.Confidence = value
		case "subsample":
			cfg.Subsample = value
		case "seed":
			cfg.Seed = value
		case "triage":
			cfg.Triage = value
		case "keep_intermediates":
			cfg.KeepIntermediates = value
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

func RunBashCmdVerbose(cmdStr string) error {
	cmd := exec.Command("bash", "-c", cmdStr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		return err
	}
	return nil
}

// CheckDeps verifies that every required external binary is on PATH.
func CheckDeps(tools ...string) error {
	if len(tools) == 0 {
		tools = []string{"megahit", "metaspades.py", "cd-hit-est", "kraken2"}
	}
	for _, tool := range tools {
		toolPath, err := exec.LookPath(tool)
		if err != nil {
			return fmt.Errorf("%s not found: %w", tool, err)
		}
		fmt.Printf("%s found at %s\n", tool, toolPath)
	}
	return nil
}
