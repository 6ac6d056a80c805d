package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("Data;Valor\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "conta_corrente", "janeiro.csv"))
	writeFile(t, filepath.Join(root, "conta_corrente", "fevereiro.CSV"))
	writeFile(t, filepath.Join(root, "cartao", "fatura.csv"))
	writeFile(t, filepath.Join(root, "avulso.csv"))
	writeFile(t, filepath.Join(root, "conta_corrente", "notas.txt"))
	writeFile(t, filepath.Join(root, "extrato.ofx"))

	results, err := New(root).Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("got %d results; want 4 CSV files", len(results))
	}

	byPath := make(map[string]ScanResult)
	for _, r := range results {
		rel, err := filepath.Rel(root, r.Path)
		if err != nil {
			t.Fatalf("rel failed: %v", err)
		}
		byPath[filepath.ToSlash(rel)] = r
	}

	if got := byPath["conta_corrente/janeiro.csv"].Account; got != "Conta Corrente" {
		t.Errorf("account = %q; want Conta Corrente", got)
	}
	if got := byPath["cartao/fatura.csv"].Account; got != "Cartao" {
		t.Errorf("account = %q; want Cartao", got)
	}
	if got := byPath["avulso.csv"].Account; got != "" {
		t.Errorf("root-level file account = %q; want empty", got)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	results, err := New(t.TempDir()).Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results; want 0", len(results))
	}
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan()
	if err == nil {
		t.Error("scanning a missing directory should fail")
	}
}

func TestNormalizeAccountName(t *testing.T) {
	s := New(".")
	tests := []struct {
		input string
		want  string
	}{
		{"conta_corrente", "Conta Corrente"},
		{"cartao", "Cartao"},
		{"poupanca_caixa", "Poupanca Caixa"},
	}

	for _, tt := range tests {
		if got := s.normalizeAccountName(tt.input); got != tt.want {
			t.Errorf("normalizeAccountName(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}
