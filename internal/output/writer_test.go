package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

func testLedger() *domain.Ledger {
	return domain.NewLedger([]domain.Transaction{
		{ID: 1, Date: "15/01/25", Description: "Salario", Category: "Salário", Account: "Conta", Amount: 5000, Status: domain.StatusConfirmed, Kind: domain.KindIncome},
	}, 2)
}

func TestWriteLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLedger(testLedger(), &buf); err != nil {
		t.Fatalf("WriteLedger failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"transactions"`) || !strings.Contains(out, `"nextId"`) {
		t.Errorf("output missing snapshot fields:\n%s", out)
	}
	if !strings.Contains(out, "  ") {
		t.Error("output should be indented")
	}

	var wire map[string]any
	if err := json.Unmarshal(buf.Bytes(), &wire); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestWriteLedgerNil(t *testing.T) {
	if err := WriteLedger(nil, &bytes.Buffer{}); err == nil {
		t.Error("nil ledger should be rejected")
	}
	if err := WriteLedgerToFile(nil, WriteOptions{}); err == nil {
		t.Error("nil ledger should be rejected")
	}
}

func TestWriteLedgerToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	if err := WriteLedgerToFile(testLedger(), WriteOptions{FilePath: path}); err != nil {
		t.Fatalf("WriteLedgerToFile failed: %v", err)
	}

	restored, err := LoadLedger(path)
	if err != nil {
		t.Fatalf("LoadLedger failed: %v", err)
	}
	if restored.Len() != 1 || restored.NextID() != 2 {
		t.Errorf("restored len=%d nextID=%d; want 1 and 2", restored.Len(), restored.NextID())
	}
	got, ok := restored.Get(1)
	if !ok || got.Description != "Salario" {
		t.Errorf("restored transaction mismatch: %+v", got)
	}
}

func TestLoadLedgerErrors(t *testing.T) {
	if _, err := LoadLedger(""); err == nil {
		t.Error("empty path should be rejected")
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := LoadLedger(missing); !os.IsNotExist(err) {
		t.Errorf("missing file should surface os.IsNotExist, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := LoadLedger(bad); err == nil {
		t.Error("malformed JSON should fail to load")
	}
}
