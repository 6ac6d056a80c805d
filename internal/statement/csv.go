// Package statement provides CSV bank-statement parsing for findash
package statement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// ErrUnrecognizedFormat is returned when the header row does not resolve
// both mandatory columns (date and amount). The whole import attempt fails;
// there is no partial import with missing columns.
var ErrUnrecognizedFormat = errors.New("statement format not recognized: date and amount columns are required")

// Categorizer assigns a category to a transaction description when the
// statement carries no category column. Implementations must be pure.
type Categorizer interface {
	Guess(description string) string
}

// Column synonym tokens, matched by substring against lower-cased header
// cells in order. Date and amount are mandatory; description and category
// are optional.
var (
	dateSynonyms        = []string{"data", "date"}
	amountSynonyms      = []string{"valor", "value", "amount"}
	descriptionSynonyms = []string{"descrição", "descricao", "description", "memo", "histórico"}
	categorySynonyms    = []string{"categoria", "category"}
)

// Parser converts delimited statement text into candidate transactions.
// The zero value is not usable; construct with NewParser.
//
// Parsing holds no state between calls, so a parser is safe for concurrent
// use as long as the injected categorizer is.
type Parser struct {
	categorizer    Categorizer
	defaultAccount string
}

// NewParser creates a statement parser. Every produced record is tagged
// with the given account name and confirmed status; the caller may override
// both before merging.
func NewParser(categorizer Categorizer, defaultAccount string) (*Parser, error) {
	if categorizer == nil {
		return nil, fmt.Errorf("categorizer cannot be nil")
	}
	if defaultAccount == "" {
		return nil, fmt.Errorf("default account cannot be empty")
	}
	return &Parser{
		categorizer:    categorizer,
		defaultAccount: defaultAccount,
	}, nil
}

// Parse tokenizes a statement blob into candidate transactions, in input
// order. Rows whose amount does not parse or whose date cell is empty are
// skipped silently; they are not errors and are not reported. A text with
// fewer than two lines (header plus at least one data row) yields an empty
// result and no error.
func (p *Parser) Parse(text string) ([]domain.Transaction, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, nil
	}

	sep := detectSeparator(lines[0])
	header := headerCells(lines[0], sep)

	dateCol := resolveColumn(header, dateSynonyms)
	amountCol := resolveColumn(header, amountSynonyms)
	if dateCol < 0 || amountCol < 0 {
		return nil, ErrUnrecognizedFormat
	}
	descCol := resolveColumn(header, descriptionSynonyms)
	catCol := resolveColumn(header, categorySynonyms)

	var records []domain.Transaction
	for i, line := range lines[1:] {
		row := i + 1 // 1-based within data rows, counting skipped rows
		if line == "" {
			continue
		}
		cells := splitFields(line, sep)

		date := strings.TrimSpace(cell(cells, dateCol))
		if date == "" {
			continue
		}
		if t, ok := domain.ParseDate(date); ok {
			date = t.Format("02/01/06")
		}

		amount, err := parseAmount(cell(cells, amountCol))
		if err != nil {
			continue
		}

		kind := domain.KindIncome
		if amount < 0 {
			kind = domain.KindExpense
		}

		desc := strings.TrimSpace(cell(cells, descCol))
		if desc == "" {
			desc = fmt.Sprintf("Lançamento %d", row)
		}

		category := strings.TrimSpace(cell(cells, catCol))
		if category == "" {
			category = p.categorizer.Guess(desc)
		}

		records = append(records, domain.Transaction{
			Date:        date,
			Description: desc,
			Category:    category,
			Account:     p.defaultAccount,
			Amount:      amount,
			Status:      domain.StatusConfirmed,
			Kind:        kind,
		})
	}

	return records, nil
}

// splitLines breaks the blob on newlines and trims each line. Leading and
// trailing blank lines are dropped; interior blank lines are kept so data
// row numbering stays stable.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}
	start, end := 0, len(raw)
	for start < end && raw[start] == "" {
		start++
	}
	for end > start && raw[end-1] == "" {
		end--
	}
	return raw[start:end]
}

// detectSeparator picks the field separator from the header line:
// semicolon when present, comma otherwise.
func detectSeparator(header string) rune {
	if strings.ContainsRune(header, ';') {
		return ';'
	}
	return ','
}

// headerCells lower-cases the header row and strips double quotes to build
// the lookup used for column resolution.
func headerCells(line string, sep rune) []string {
	cells := splitFields(strings.ToLower(line), sep)
	for i := range cells {
		cells[i] = strings.ReplaceAll(cells[i], `"`, "")
	}
	return cells
}

// resolveColumn returns the index of the first header cell containing any
// of the synonym tokens, trying tokens in order. Returns -1 when no cell
// matches.
func resolveColumn(header []string, synonyms []string) int {
	for _, token := range synonyms {
		for i, cell := range header {
			if strings.Contains(cell, token) {
				return i
			}
		}
	}
	return -1
}

// splitFields splits a data line on the separator while treating
// double-quote pairs as literal-content delimiters: separators between an
// opening and closing quote do not split, and the quote characters are
// dropped from the output.
func splitFields(line string, sep rune) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == sep && !quoted:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// parseAmount normalizes a decimal-comma amount cell and parses it.
// Only the first comma is replaced, so thousand-separated values like
// "1.234,56" fail to parse and the row is skipped by the caller.
func parseAmount(raw string) (float64, error) {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	return strconv.ParseFloat(s, 64)
}

// cell returns the idx-th field or "" when the column is unresolved or the
// row is short.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
