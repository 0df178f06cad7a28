package posbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// This file contains the JSONL codec for ledger files: one transaction per
// line, human-readable and git-friendly.

// DecodeLedger reads transactions from a stream of JSONL data and returns a
// chronologically sorted ledger for the given portfolio.
func DecodeLedger(portfolio *Portfolio, r io.Reader) (*Ledger, error) {
	ledger := NewLedger(portfolio)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("invalid transaction line %q: %w", string(lineBytes), err)
		}
		tx.Portfolio = portfolio
		ledger.transactions = append(ledger.transactions, tx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	ledger.stableSort()
	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	jsonData, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger reorders transactions by date and persists them to an
// io.Writer in JSONL format, one transaction per line.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
