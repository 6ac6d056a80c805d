// Package scanner finds CSV statement files under a directory tree for
// batch import.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scanner walks directory tree and finds statement files
type Scanner struct {
	rootDir string
}

// New creates a new scanner for the given root directory
func New(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// ScanResult represents a found statement file with metadata derived from
// its location. Path structure: {root}/{account}/file.csv; files directly
// under the root carry no account.
type ScanResult struct {
	Path       string
	Account    string
	DetectedAt time.Time
}

// Scan walks the directory tree and finds all CSV statement files
func (s *Scanner) Scan() ([]ScanResult, error) {
	var results []ScanResult

	rootDir := s.expandHome(s.rootDir)

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !s.isStatementFile(path) {
			return nil
		}

		results = append(results, ScanResult{
			Path:       path,
			Account:    s.extractAccount(path, rootDir),
			DetectedAt: time.Now(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return results, nil
}

// isStatementFile checks if file is a known statement format
func (s *Scanner) isStatementFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

// extractAccount derives the account name from the first directory under
// the root. "conta_corrente" -> "Conta Corrente".
func (s *Scanner) extractAccount(filePath, rootDir string) string {
	relPath, err := filepath.Rel(rootDir, filePath)
	if err != nil {
		relPath = filePath
	}

	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) < 2 {
		return ""
	}

	return s.normalizeAccountName(parts[0])
}

// normalizeAccountName converts directory name to readable name
// "conta_corrente" -> "Conta Corrente"
func (s *Scanner) normalizeAccountName(dirName string) string {
	name := strings.ReplaceAll(dirName, "_", " ")

	words := strings.Split(name, " ")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}

	return strings.Join(words, " ")
}

// expandHome expands ~ to home directory
func (s *Scanner) expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
