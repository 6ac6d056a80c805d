// Package output writes ledger snapshots as JSON, to a file or stdout.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// WriteOptions configures how the ledger is written
type WriteOptions struct {
	FilePath string // Output path (empty = stdout)
}

// WriteLedger serializes the ledger to JSON with 2-space indentation
func WriteLedger(ledger *domain.Ledger, w io.Writer) error {
	if ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ledger); err != nil {
		return fmt.Errorf("failed to encode ledger as JSON: %w", err)
	}

	return nil
}

// WriteLedgerToFile writes the ledger to file or stdout based on options
func WriteLedgerToFile(ledger *domain.Ledger, opts WriteOptions) (err error) {
	if ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}

	if opts.FilePath == "" {
		return WriteLedger(ledger, os.Stdout)
	}

	f, err := os.Create(opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", opts.FilePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", opts.FilePath, closeErr)
		}
	}()

	if err = WriteLedger(ledger, f); err != nil {
		return fmt.Errorf("failed to write ledger to %s: %w", opts.FilePath, err)
	}

	return nil
}

// LoadLedger reads a previously exported ledger snapshot
func LoadLedger(filePath string) (*domain.Ledger, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	f, err := os.Open(filePath)
	if err != nil {
		// Return unwrapped error so caller can check os.IsNotExist
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", filePath, closeErr)
		}
	}()

	var ledger domain.Ledger
	if err := json.NewDecoder(f).Decode(&ledger); err != nil {
		return nil, fmt.Errorf("failed to decode ledger JSON: %w", err)
	}

	return &ledger, nil
}
