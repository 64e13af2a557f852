package assembly

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmaffy/metaforge/utils"
)

// RunMegahit co-assembles pooled paired-end reads with MEGAHIT and returns the
// path to the final contigs FASTA. MEGAHIT refuses to run if its output
// directory already exists, so the assembly goes into a fresh subdirectory of
// outDir.
func RunMegahit(fwd string, rev string, outDir string, threads int, memFraction float64, kmerList string, minContigLen int) (string, error) {
	fmt.Println("Assembling with MEGAHIT ...")
	fmt.Printf("Fwd: %s\nRev: %s\nOutDir: %s\nThreads: %d\n", fwd, rev, outDir, threads)

	if _, err := os.Stat(fwd); err != nil {
		return "", fmt.Errorf("forward reads %s: %w", fwd, err)
	}
	if _, err := os.Stat(rev); err != nil {
		return "", fmt.Errorf("reverse reads %s: %w", rev, err)
	}

	megahitDir := filepath.Join(outDir, "megahit")
	if _, err := os.Stat(megahitDir); err == nil {
		return "", fmt.Errorf("MEGAHIT output directory %s already exists, remove it or pick another output directory", megahitDir)
	}

	cmdStr := fmt.Sprintf(`megahit -1 %s -2 %s -o %s --k-list %s -t %d -m %g --min-contig-len %d`,
		fwd, rev, megahitDir, kmerList, threads, memFraction, minContigLen)
	fmt.Println(cmdStr)
	if err := utils.RunBashCmdVerbose(cmdStr); err != nil {
		return "", fmt.Errorf("megahit failed: %w", err)
	}

	contigs := filepath.Join(megahitDir, "final.contigs.fa")
	if _, err := os.Stat(contigs); err != nil {
		return "", fmt.Errorf("MEGAHIT finished but %s is missing: %w", contigs, err)
	}
	return contigs, nil
}
