package assembly

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gmaffy/metaforge/utils"
)

// ClusterSummary is derived from the .clstr file CD-HIT-EST writes next to
// its representative FASTA.
type ClusterSummary struct {
	Clusters  int
	Members   int
	Redundant int
}

// Dedup clusters near-identical contigs with CD-HIT-EST and returns the path
// to the representative set plus a summary of what was collapsed. identity is
// the sequence identity threshold (-c), wordSize the k-mer word size (-n).
func Dedup(contigs string, out string, identity float64, wordSize int, threads int, memoryMB int) (string, ClusterSummary, error) {
	fmt.Println("Removing redundant contigs with CD-HIT-EST ...")

	if _, err := os.Stat(contigs); err != nil {
		return "", ClusterSummary{}, fmt.Errorf("contigs %s: %w", contigs, err)
	}

	cmdStr := fmt.Sprintf(`cd-hit-est -i %s -o %s -c %g -n %d -T %d -M %d -d 0`,
		contigs, out, identity, wordSize, threads, memoryMB)
	fmt.Println(cmdStr)
	if err := utils.RunBashCmdVerbose(cmdStr); err != nil {
		return "", ClusterSummary{}, fmt.Errorf("cd-hit-est failed: %w", err)
	}

	summary, err := ReadClstr(out + ".clstr")
	if err != nil {
		return "", ClusterSummary{}, err
	}
	fmt.Printf("Clusters: %d, input contigs: %d, redundant contigs removed: %d\n",
		summary.Clusters, summary.Members, summary.Redundant)

	return out, summary, nil
}

func ReadClstr(path string) (ClusterSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ClusterSummary{}, fmt.Errorf("cluster file %s: %w", path, err)
	}
	defer f.Close()
	return ParseClstr(f)
}

// ParseClstr reads CD-HIT cluster output. Cluster headers start with
// ">Cluster", every other non-empty line is one member sequence.
func ParseClstr(r io.Reader) (ClusterSummary, error) {
	var summary ClusterSummary

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">Cluster") {
			summary.Clusters++
			continue
		}
		if summary.Clusters == 0 {
			return ClusterSummary{}, fmt.Errorf("malformed clstr input: member line %q before any cluster header", line)
		}
		summary.Members++
	}
	if err := sc.Err(); err != nil {
		return ClusterSummary{}, err
	}

	summary.Redundant = summary.Members - summary.Clusters
	return summary, nil
}
