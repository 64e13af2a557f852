package stats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	gzip "github.com/klauspost/pgzip"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFasta is returned when the input file has content but no parseable
// FASTA records.
var ErrNotFasta = errors.New("not a valid FASTA file")

// LengthThresholds are the cutoffs reported in the length distribution table.
var LengthThresholds = []int{500, 1000, 5000, 10000, 50000}

type Record struct {
	ID  string
	Seq string
}

type Stats struct {
	Contigs    int
	TotalBases int
	Min        int
	Max        int
	Mean       float64
	Median     float64
	N50        int
	L50        int
	GC         float64
	LengthDist []int
}

// Compute derives assembly metrics from a set of contig records. It is a pure
// function, the caller owns all I/O.
func Compute(records []Record) Stats {
	s := Stats{LengthDist: make([]int, len(LengthThresholds))}
	if len(records) == 0 {
		return s
	}

	var lengths []int
	var gcBases, unambiguousBases int
	for _, rec := range records {
		l := len(rec.Seq)
		lengths = append(lengths, l)
		s.TotalBases += l
		for _, b := range []byte(strings.ToUpper(rec.Seq)) {
			switch b {
			case 'G', 'C':
				gcBases++
				unambiguousBases++
			case 'A', 'T':
				unambiguousBases++
			}
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	s.Contigs = len(lengths)
	s.Max = lengths[0]
	s.Min = lengths[len(lengths)-1]

	fLengths := make([]float64, len(lengths))
	for i, l := range lengths {
		fLengths[i] = float64(l)
	}
	s.Mean = stat.Mean(fLengths, nil)
	s.Median = median(lengths)

	csum := 0
	for i, l := range lengths {
		csum += l
		if 2*csum >= s.TotalBases {
			s.N50 = l
			s.L50 = i + 1
			break
		}
	}

	if unambiguousBases > 0 {
		s.GC = float64(gcBases) / float64(unambiguousBases)
	}

	for i, threshold := range LengthThresholds {
		for _, l := range lengths {
			if l >= threshold {
				s.LengthDist[i]++
			}
		}
	}

	return s
}

// median expects lengths sorted in either direction.
func median(lengths []int) float64 {
	n := len(lengths)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(lengths[n/2])
	}
	return float64(lengths[n/2-1]+lengths[n/2]) / 2
}

// ReadFasta reads all records from a FASTA file, transparently handling gzip
// input. A missing file surfaces as an *os.PathError, a non-empty file with
// no parseable records as ErrNotFasta.
func ReadFasta(path string) ([]Record, error) {
	fna, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fna.Close()

	var reader io.Reader = fna
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(fna)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	return readFasta(reader, path)
}

func readFasta(reader io.Reader, name string) ([]Record, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	r := fasta.NewReader(strings.NewReader(string(data)), linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)

	var records []Record
	for sc.Next() {
		seq := sc.Seq().(*linear.Seq)
		records = append(records, Record{ID: seq.ID, Seq: seq.Seq.String()})
	}
	if err := sc.Error(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFasta, name, err)
	}

	if len(records) == 0 && strings.TrimSpace(string(data)) != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFasta, name)
	}

	return records, nil
}
