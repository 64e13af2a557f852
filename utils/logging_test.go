package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLogFile(t *testing.T) {
	logContent := `{"time":"2025-06-18T21:11:02.572267197+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"initialise","TARGET":"gut_coassembly","STATUS":"STARTED"}
{"time":"2025-06-18T21:11:03.397122518+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"mergeReads","TARGET":"gut_coassembly","STATUS":"STARTED"}
{"time":"2025-06-18T21:14:10.124962114+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"mergeReads","TARGET":"gut_coassembly","STATUS":"COMPLETED"}
{"time":"2025-06-18T21:14:11.019476930+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"assemble","TARGET":"megahit","STATUS":"STARTED"}
not json at all
{"time":"2025-06-18T23:55:17.308876904+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"assemble","TARGET":"megahit","STATUS":"COMPLETED"}
{"time":"2025-06-18T23:55:18.310433516+02:00","level":"INFO","msg":"CO-ASSEMBLY PIPELINE","STAGE":"dedup","TARGET":"megahit","STATUS":"STARTED"}
`
	logFilePath := filepath.Join(t.TempDir(), "pipeline.log")
	if err := os.WriteFile(logFilePath, []byte(logContent), 0644); err != nil {
		t.Fatal(err)
	}

	entries := ParseLogFile(logFilePath)
	if len(entries) != 6 {
		t.Fatalf("got %d entries; want 6 (non-JSON line skipped)", len(entries))
	}
	if entries[0].Stage != "initialise" || entries[0].Status != "STARTED" {
		t.Errorf("entries[0] = %+v", entries[0])
	}

	if !StageHasCompleted(entries, "mergeReads", "gut_coassembly") {
		t.Error("mergeReads should be completed")
	}
	if !StageHasCompleted(entries, "assemble", "megahit") {
		t.Error("megahit assembly should be completed")
	}
	if StageHasCompleted(entries, "dedup", "megahit") {
		t.Error("dedup only started, must not count as completed")
	}
	if StageHasCompleted(entries, "assemble", "metaspades") {
		t.Error("metaspades never ran, must not count as completed")
	}
}

func TestParseLogFileMissing(t *testing.T) {
	entries := ParseLogFile(filepath.Join(t.TempDir(), "absent.log"))
	if entries != nil {
		t.Errorf("missing log should parse to nil, got %v", entries)
	}
}
