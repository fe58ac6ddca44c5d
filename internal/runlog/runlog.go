package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp   time.Time
	RunID       uuid.UUID
	Strategy    string
	Mode        string // basic or advanced
	Input       string
	Obligations int
	Settlements int
	Duration    time.Duration
}

// Header is the CSV header for runs.csv.
const Header = "timestamp,run_id,strategy,mode,input,obligations,settlements,duration_ms"

const (
	numFields      = 8
	logDir         = "logs"
	logFile        = "logs/runs.csv"
	colTimestamp   = 0
	colRunID       = 1
	colStrategy    = 2
	colMode        = 3
	colInput       = 4
	colObligations = 5
	colSettlements = 6
	colDuration    = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colStrategy] = e.Strategy
	row[colMode] = e.Mode
	row[colInput] = e.Input
	row[colObligations] = strconv.Itoa(e.Obligations)
	row[colSettlements] = strconv.Itoa(e.Settlements)
	row[colDuration] = strconv.FormatInt(e.Duration.Milliseconds(), 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	id, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	obligations, err := strconv.Atoi(record[colObligations])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing obligations %q: %w", record[colObligations], err)
	}
	settlements, err := strconv.Atoi(record[colSettlements])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing settlements %q: %w", record[colSettlements], err)
	}
	ms, err := strconv.ParseInt(record[colDuration], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duration_ms %q: %w", record[colDuration], err)
	}

	return Entry{
		Timestamp:   ts,
		RunID:       id,
		Strategy:    record[colStrategy],
		Mode:        record[colMode],
		Input:       record[colInput],
		Obligations: obligations,
		Settlements: settlements,
		Duration:    time.Duration(ms) * time.Millisecond,
	}, nil
}

// Append writes entries to <dir>/logs/runs.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/runs.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
