package assembly

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmaffy/metaforge/utils"
)

// RunMetaspades co-assembles pooled paired-end reads with metaSPAdes and
// returns the path to the contigs FASTA. Memory is the SPAdes RAM ceiling in
// gigabytes.
func RunMetaspades(fwd string, rev string, outDir string, threads int, memoryGB int, kmerList string) (string, error) {
	fmt.Println("Assembling with metaSPAdes ...")
	fmt.Printf("Fwd: %s\nRev: %s\nOutDir: %s\nThreads: %d\nMemory: %dG\n", fwd, rev, outDir, threads, memoryGB)

	if _, err := os.Stat(fwd); err != nil {
		return "", fmt.Errorf("forward reads %s: %w", fwd, err)
	}
	if _, err := os.Stat(rev); err != nil {
		return "", fmt.Errorf("reverse reads %s: %w", rev, err)
	}

	spadesDir := filepath.Join(outDir, "metaspades")
	if err := os.MkdirAll(spadesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", spadesDir, err)
	}

	cmdStr := fmt.Sprintf(`metaspades.py -1 %s -2 %s -o %s -t %d -m %d -k %s`,
		fwd, rev, spadesDir, threads, memoryGB, kmerList)
	fmt.Println(cmdStr)
	if err := utils.RunBashCmdVerbose(cmdStr); err != nil {
		return "", fmt.Errorf("metaspades failed: %w", err)
	}

	contigs := filepath.Join(spadesDir, "contigs.fasta")
	if _, err := os.Stat(contigs); err != nil {
		return "", fmt.Errorf("metaSPAdes finished but %s is missing: %w", contigs, err)
	}
	return contigs, nil
}
