package reads

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Pair is one sample's forward/reverse read files.
type Pair struct {
	Forward string
	Reverse string
	Sample  string
}

const maxLineBytes = 16 * 1024 * 1024

// MergePairs pools per-sample paired-end FASTQ files into two gzip-compressed
// co-assembly inputs, <baseName>_R1.fastq.gz and <baseName>_R2.fastq.gz, under
// outDir. Forward and reverse pools are written concurrently.
//
// If 0 < subsample < 1, each record is kept with that probability. The RNG for
// pair i is seeded with seed+i on both the forward and reverse side, so mates
// are kept or dropped together.
func MergePairs(pairs []Pair, outDir string, baseName string, subsample float64, seed uint64) (string, string, error) {
	if len(pairs) == 0 {
		return "", "", fmt.Errorf("no read pairs to merge")
	}
	for _, pair := range pairs {
		if _, err := os.Stat(pair.Forward); err != nil {
			return "", "", fmt.Errorf("forward reads %s: %w", pair.Forward, err)
		}
		if _, err := os.Stat(pair.Reverse); err != nil {
			return "", "", fmt.Errorf("reverse reads %s: %w", pair.Reverse, err)
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	fwdOut := filepath.Join(outDir, baseName+"_R1.fastq.gz")
	revOut := filepath.Join(outDir, baseName+"_R2.fastq.gz")

	fwdInputs := make([]string, len(pairs))
	revInputs := make([]string, len(pairs))
	for i, pair := range pairs {
		fwdInputs[i] = pair.Forward
		revInputs[i] = pair.Reverse
	}

	var g errgroup.Group
	g.Go(func() error {
		return mergeInto(fwdOut, fwdInputs, subsample, seed)
	})
	g.Go(func() error {
		return mergeInto(revOut, revInputs, subsample, seed)
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	return fwdOut, revOut, nil
}

func mergeInto(outPath string, inputs []string, subsample float64, seed uint64) error {
	tmpPath := outPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	gzw := gzip.NewWriter(out)
	w := bufio.NewWriter(gzw)

	cleanup := func(err error) error {
		gzw.Close()
		out.Close()
		os.Remove(tmpPath)
		return err
	}

	for i, input := range inputs {
		var rng *rand.Rand
		if subsample > 0 && subsample < 1 {
			rng = rand.New(rand.NewSource(seed + uint64(i)))
		}
		if err := appendReads(w, input, subsample, rng); err != nil {
			return cleanup(err)
		}
	}

	if err := w.Flush(); err != nil {
		return cleanup(fmt.Errorf("failed to flush %s: %w", tmpPath, err))
	}
	if err := gzw.Close(); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close gzip stream for %s: %w", tmpPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	return os.Rename(tmpPath, outPath)
}

func appendReads(w *bufio.Writer, path string, subsample float64, rng *rand.Rand) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open reads %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gzr.Close()
		reader = gzr
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 1024*1024), maxLineBytes)

	var record [4]string
	for {
		n := 0
		for n < 4 && sc.Scan() {
			record[n] = sc.Text()
			n++
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("failed reading %s: %v", path, err)
		}
		if n == 0 {
			return nil
		}
		if n < 4 {
			return fmt.Errorf("truncated FASTQ record at end of %s", path)
		}
		if !strings.HasPrefix(record[0], "@") || !strings.HasPrefix(record[2], "+") {
			return fmt.Errorf("malformed FASTQ record in %s near %q", path, record[0])
		}

		if rng != nil && rng.Float64() >= subsample {
			continue
		}
		for _, line := range record {
			if _, err := w.WriteString(line); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
}
