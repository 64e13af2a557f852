package reads

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gzip "github.com/klauspost/pgzip"
)

func fastqRecord(id string, seq string) string {
	qual := strings.Repeat("I", len(seq))
	return "@" + id + "\n" + seq + "\n+\n" + qual + "\n"
}

func writePlain(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeGz(t *testing.T, path string, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func readGzLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	var lines []string
	sc := bufio.NewScanner(gz)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return lines
}

func TestMergePairs(t *testing.T) {
	dir := t.TempDir()

	// One plain sample and one gzipped sample.
	s1Fwd := filepath.Join(dir, "s1_R1.fastq")
	s1Rev := filepath.Join(dir, "s1_R2.fastq")
	writePlain(t, s1Fwd, fastqRecord("s1.1/1", "ACGT"))
	writePlain(t, s1Rev, fastqRecord("s1.1/2", "TTTT"))

	s2Fwd := filepath.Join(dir, "s2_R1.fastq.gz")
	s2Rev := filepath.Join(dir, "s2_R2.fastq.gz")
	writeGz(t, s2Fwd, fastqRecord("s2.1/1", "GGGG"))
	writeGz(t, s2Rev, fastqRecord("s2.1/2", "CCCC"))

	outDir := filepath.Join(dir, "out")
	pairs := []Pair{
		{Forward: s1Fwd, Reverse: s1Rev, Sample: "s1"},
		{Forward: s2Fwd, Reverse: s2Rev, Sample: "s2"},
	}
	fwd, rev, err := MergePairs(pairs, outDir, "pooled", 0, 0)
	if err != nil {
		t.Fatalf("MergePairs() error = %v", err)
	}

	fwdLines := readGzLines(t, fwd)
	if len(fwdLines) != 8 {
		t.Fatalf("pooled forward has %d lines; want 8", len(fwdLines))
	}
	if fwdLines[0] != "@s1.1/1" || fwdLines[4] != "@s2.1/1" {
		t.Errorf("forward pool order wrong: %v", fwdLines)
	}
	if fwdLines[1] != "ACGT" || fwdLines[5] != "GGGG" {
		t.Errorf("forward pool sequences wrong: %v", fwdLines)
	}

	revLines := readGzLines(t, rev)
	if len(revLines) != 8 {
		t.Fatalf("pooled reverse has %d lines; want 8", len(revLines))
	}
	if revLines[0] != "@s1.1/2" || revLines[4] != "@s2.1/2" {
		t.Errorf("reverse pool order wrong: %v", revLines)
	}
}

func TestMergePairsMissingInput(t *testing.T) {
	dir := t.TempDir()
	pairs := []Pair{{Forward: filepath.Join(dir, "nope_R1.fastq"), Reverse: filepath.Join(dir, "nope_R2.fastq")}}

	if _, _, err := MergePairs(pairs, dir, "pooled", 0, 0); err == nil {
		t.Fatal("MergePairs() with missing inputs should fail")
	}
}

func TestMergePairsTruncatedRecord(t *testing.T) {
	dir := t.TempDir()
	fwd := filepath.Join(dir, "bad_R1.fastq")
	rev := filepath.Join(dir, "bad_R2.fastq")
	writePlain(t, fwd, "@r1\nACGT\n+\n") // quality line missing
	writePlain(t, rev, fastqRecord("r1/2", "ACGT"))

	_, _, err := MergePairs([]Pair{{Forward: fwd, Reverse: rev}}, filepath.Join(dir, "out"), "pooled", 0, 0)
	if err == nil {
		t.Fatal("MergePairs() with a truncated record should fail")
	}
	if !strings.Contains(err.Error(), "truncated") {
		t.Errorf("error = %v; want a truncated record error", err)
	}

	// No partial pool files left behind.
	if _, statErr := os.Stat(filepath.Join(dir, "out", "pooled_R1.fastq.gz")); !os.IsNotExist(statErr) {
		t.Errorf("partial forward pool left behind")
	}
}

func TestMergePairsSubsampleKeepsMatesTogether(t *testing.T) {
	dir := t.TempDir()
	fwd := filepath.Join(dir, "s_R1.fastq")
	rev := filepath.Join(dir, "s_R2.fastq")

	var fwdContent, revContent strings.Builder
	for i := 0; i < 200; i++ {
		fwdContent.WriteString(fastqRecord("r/1", "ACGTACGT"))
		revContent.WriteString(fastqRecord("r/2", "TGCATGCA"))
	}
	writePlain(t, fwd, fwdContent.String())
	writePlain(t, rev, revContent.String())

	outDir := filepath.Join(dir, "out")
	fOut, rOut, err := MergePairs([]Pair{{Forward: fwd, Reverse: rev}}, outDir, "pooled", 0.5, 7)
	if err != nil {
		t.Fatalf("MergePairs() error = %v", err)
	}

	fwdLines := readGzLines(t, fOut)
	revLines := readGzLines(t, rOut)
	if len(fwdLines) != len(revLines) {
		t.Fatalf("subsampled pools differ: %d forward lines vs %d reverse lines", len(fwdLines), len(revLines))
	}
	if len(fwdLines)%4 != 0 {
		t.Errorf("forward pool has partial records: %d lines", len(fwdLines))
	}
	if len(fwdLines) == 0 || len(fwdLines) == 200*4 {
		t.Errorf("subsampling at 0.5 kept %d of 200 records", len(fwdLines)/4)
	}
}

func TestMergePairsSubsampleDeterministic(t *testing.T) {
	dir := t.TempDir()
	fwd := filepath.Join(dir, "s_R1.fastq")
	rev := filepath.Join(dir, "s_R2.fastq")

	var content strings.Builder
	for i := 0; i < 50; i++ {
		content.WriteString(fastqRecord("r/1", "ACGTACGT"))
	}
	writePlain(t, fwd, content.String())
	writePlain(t, rev, content.String())

	out1 := filepath.Join(dir, "out1")
	out2 := filepath.Join(dir, "out2")
	f1, _, err := MergePairs([]Pair{{Forward: fwd, Reverse: rev}}, out1, "pooled", 0.3, 99)
	if err != nil {
		t.Fatal(err)
	}
	f2, _, err := MergePairs([]Pair{{Forward: fwd, Reverse: rev}}, out2, "pooled", 0.3, 99)
	if err != nil {
		t.Fatal(err)
	}

	if len(readGzLines(t, f1)) != len(readGzLines(t, f2)) {
		t.Errorf("same seed produced different subsamples")
	}
}
