// Package ledger reads and writes transaction files. A basic ledger has one
// debt per row; an advanced ledger adds dates, rates and instrument kinds.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cleared-dev/settle/internal/model"
)

// BasicHeader is the CSV header for basic ledgers.
const BasicHeader = "debtor,creditor,amount"

// AdvancedHeader is the CSV header for advanced ledgers.
const AdvancedHeader = "debtor,creditor,amount,borrow_date,due_date,interest_rate,penalty_rate,interest_type,penalty_type"

const (
	numBasicFields    = 3
	numAdvancedFields = 9
	colDebtor         = 0
	colCreditor       = 1
	colAmount         = 2
	colBorrowDate     = 3
	colDueDate        = 4
	colInterestRate   = 5
	colPenaltyRate    = 6
	colInterestType   = 7
	colPenaltyType    = 8
)

// ReadBasic reads all transactions from a basic ledger.
func ReadBasic(r io.Reader) ([]model.BasicTransaction, error) {
	records, err := readRecords(r, numBasicFields)
	if err != nil {
		return nil, err
	}
	var txs []model.BasicTransaction
	for i, rec := range records {
		tx, err := UnmarshalBasic(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ReadAdvanced reads all transactions from an advanced ledger.
func ReadAdvanced(r io.Reader) ([]model.AdvancedTransaction, error) {
	records, err := readRecords(r, numAdvancedFields)
	if err != nil {
		return nil, err
	}
	var txs []model.AdvancedTransaction
	for i, rec := range records {
		tx, err := UnmarshalAdvanced(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// readRecords returns the data rows, header excluded.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// WriteBasic writes txs to w with a header.
func WriteBasic(w io.Writer, txs []model.BasicTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(BasicHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		if err := cw.Write(MarshalBasic(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAdvanced writes txs to w with a header.
func WriteAdvanced(w io.Writer, txs []model.AdvancedTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(AdvancedHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		if err := cw.Write(MarshalAdvanced(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalBasic converts a BasicTransaction to a CSV row.
func MarshalBasic(tx model.BasicTransaction) []string {
	row := make([]string, numBasicFields)
	row[colDebtor] = tx.Debtor
	row[colCreditor] = tx.Creditor
	row[colAmount] = tx.Amount.String()
	return row
}

// UnmarshalBasic converts a CSV row to a validated BasicTransaction.
func UnmarshalBasic(record []string) (model.BasicTransaction, error) {
	if len(record) != numBasicFields {
		return model.BasicTransaction{}, fmt.Errorf("expected %d fields, got %d", numBasicFields, len(record))
	}
	amount, err := model.ParseMoney(record[colAmount])
	if err != nil {
		return model.BasicTransaction{}, err
	}
	return model.NewBasicTransaction(
		strings.TrimSpace(record[colDebtor]),
		strings.TrimSpace(record[colCreditor]),
		amount,
	)
}

// MarshalAdvanced converts an AdvancedTransaction to a CSV row.
func MarshalAdvanced(tx model.AdvancedTransaction) []string {
	row := make([]string, numAdvancedFields)
	copy(row, MarshalBasic(tx.BasicTransaction))
	row[colBorrowDate] = tx.BorrowDate.Format(model.DateFormat)
	row[colDueDate] = tx.DueDate.Format(model.DateFormat)
	row[colInterestRate] = strconv.FormatFloat(tx.InterestRate, 'f', -1, 64)
	row[colPenaltyRate] = strconv.FormatFloat(tx.PenaltyRate, 'f', -1, 64)
	row[colInterestType] = string(tx.InterestType)
	row[colPenaltyType] = string(tx.PenaltyType)
	return row
}

// UnmarshalAdvanced converts a CSV row to a validated AdvancedTransaction.
// Blank rates read as zero and blank kinds as the defaults.
func UnmarshalAdvanced(record []string) (model.AdvancedTransaction, error) {
	if len(record) != numAdvancedFields {
		return model.AdvancedTransaction{}, fmt.Errorf("expected %d fields, got %d", numAdvancedFields, len(record))
	}
	amount, err := model.ParseMoney(record[colAmount])
	if err != nil {
		return model.AdvancedTransaction{}, err
	}

	borrow, err := model.ParseDate(record[colBorrowDate])
	if err != nil {
		return model.AdvancedTransaction{}, fmt.Errorf("parsing borrow_date %q: %w", record[colBorrowDate], err)
	}
	due, err := model.ParseDate(record[colDueDate])
	if err != nil {
		return model.AdvancedTransaction{}, fmt.Errorf("parsing due_date %q: %w", record[colDueDate], err)
	}

	interestRate, err := parseRate(record[colInterestRate])
	if err != nil {
		return model.AdvancedTransaction{}, fmt.Errorf("parsing interest_rate: %w", err)
	}
	penaltyRate, err := parseRate(record[colPenaltyRate])
	if err != nil {
		return model.AdvancedTransaction{}, fmt.Errorf("parsing penalty_rate: %w", err)
	}

	interestType := model.DefaultInterestType
	if s := record[colInterestType]; strings.TrimSpace(s) != "" {
		if interestType, err = model.ParseInterestType(s); err != nil {
			return model.AdvancedTransaction{}, err
		}
	}
	penaltyType := model.DefaultPenaltyType
	if s := record[colPenaltyType]; strings.TrimSpace(s) != "" {
		if penaltyType, err = model.ParsePenaltyType(s); err != nil {
			return model.AdvancedTransaction{}, err
		}
	}

	return model.NewAdvancedTransaction(
		strings.TrimSpace(record[colDebtor]),
		strings.TrimSpace(record[colCreditor]),
		amount, borrow, due,
		interestRate, penaltyRate,
		interestType, penaltyType,
	)
}

func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// LoadBasic reads a basic ledger file.
func LoadBasic(path string) ([]model.BasicTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()
	return ReadBasic(f)
}

// LoadAdvanced reads an advanced ledger file.
func LoadAdvanced(path string) ([]model.AdvancedTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()
	return ReadAdvanced(f)
}

// SaveBasic writes a basic ledger file, replacing any existing one.
func SaveBasic(path string, txs []model.BasicTransaction) error {
	return save(path, func(w io.Writer) error { return WriteBasic(w, txs) })
}

// SaveAdvanced writes an advanced ledger file, replacing any existing one.
func SaveAdvanced(path string, txs []model.AdvancedTransaction) error {
	return save(path, func(w io.Writer) error { return WriteAdvanced(w, txs) })
}

func save(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
