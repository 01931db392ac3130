package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/accuracy"
)

// ResultEvent is one scored comparison, written as a single JSON line.
type ResultEvent struct {
	RunID       string           `json:"run_id"`
	Name        string           `json:"name"`
	GroundTruth string           `json:"ground_truth"`
	Estimate    string           `json:"estimate"`
	Policy      string           `json:"policy"`
	Singletons  int              `json:"singletons_added"`
	Report      *accuracy.Report `json:"report"`
	Timestamp   int64            `json:"timestamp"`
}

// ResultTracker appends scored comparisons to a JSON-lines file.
// A nil tracker discards everything, so callers need no checks.
type ResultTracker struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	runID   string
}

// NewResultTracker opens filename for appending.
func NewResultTracker(filename, runID string) (*ResultTracker, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}

	return &ResultTracker{
		file:    file,
		encoder: json.NewEncoder(file),
		runID:   runID,
	}, nil
}

// Record writes one event, stamping it with the tracker's run id and the current time.
func (rt *ResultTracker) Record(event ResultEvent) error {
	if rt == nil {
		return nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	event.RunID = rt.runID
	event.Timestamp = time.Now().Unix()
	if err := rt.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

func (rt *ResultTracker) Close() error {
	if rt != nil && rt.file != nil {
		return rt.file.Close()
	}
	return nil
}

// ReadResults loads every event of a results file.
func ReadResults(filename string) ([]ResultEvent, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer file.Close()

	var events []ResultEvent
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var e ResultEvent
		if err := decoder.Decode(&e); err != nil {
			return events, fmt.Errorf("failed to decode result %d: %w", len(events)+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}
