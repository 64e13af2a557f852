package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

type LogEntry struct {
	Timestamp string `json:"time"`
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Stage     string `json:"STAGE"`
	Target    string `json:"TARGET"`
	Status    string `json:"STATUS"`
	Cmd       string `json:"CMD"`
}

// ParseLogFile reads a JSON run log and returns the entries it could parse.
// Lines that are not valid JSON are skipped.
func ParseLogFile(logFilePath string) []LogEntry {
	file, err := os.Open(logFilePath)
	if err != nil {
		return nil
	}
	defer file.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		fmt.Printf("Error scanning log file: %v\n", err)
	}

	return entries
}

// StageHasCompleted reports whether a COMPLETED entry exists for the given
// stage and target in a previous run.
func StageHasCompleted(entries []LogEntry, stage string, target string) bool {
	for _, entry := range entries {
		if entry.Stage == stage && entry.Target == target && entry.Status == "COMPLETED" {
			return true
		}
	}
	return false
}
