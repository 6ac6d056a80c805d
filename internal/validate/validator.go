// Package validate checks manually entered transactions before they reach
// the ledger. Failures are data, never errors: every rule runs and every
// violation is collected into the result.
package validate

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// Options controls validation strictness.
type Options struct {
	// AllowFourDigitYears admits DD/MM/YYYY dates in addition to the strict
	// DD/MM/YY form. The default (false) preserves the manual-entry gate,
	// which is deliberately narrower than the lenient parser used for
	// display ordering and imports.
	AllowFourDigitYears bool
}

// Result contains the outcome of validating a single transaction.
type Result struct {
	Valid  bool
	Errors []string
}

// User-facing validation messages, in the product's language.
const (
	msgDescriptionTooShort = "Descrição deve ter no mínimo 3 caracteres"
	msgInvalidAmount       = "Valor deve ser um número válido e diferente de zero"
	msgInvalidDate         = "Data inválida"
	msgCategoryRequired    = "Categoria é obrigatória"
	msgKindSignMismatch    = "Tipo não confere com o sinal do valor"
)

// Transaction validates a record for manual entry or edit. Rules are
// independent and never short-circuit; the caller decides whether to
// surface the collected messages and abort.
//
// Infinite amounts pass the amount rule; only NaN and zero are rejected.
// That quirk is load-bearing for compatibility with the historical rule
// set and is deliberately left in place.
func Transaction(t domain.Transaction, opts Options) Result {
	var errs []string

	// Length is measured in characters, not bytes, so accented
	// descriptions are not over-counted.
	if utf8.RuneCountInString(strings.TrimSpace(t.Description)) < 3 {
		errs = append(errs, msgDescriptionTooShort)
	}

	if math.IsNaN(t.Amount) || t.Amount == 0 {
		errs = append(errs, msgInvalidAmount)
	}

	if !domain.ValidDate(t.Date, opts.AllowFourDigitYears) {
		errs = append(errs, msgInvalidDate)
	}

	if strings.TrimSpace(t.Category) == "" {
		errs = append(errs, msgCategoryRequired)
	}

	// Kind is redundant with the amount sign; when both are present they
	// must agree. Records without a kind skip the check.
	if t.Kind != "" && t.Amount != 0 && !math.IsNaN(t.Amount) {
		positive := t.Amount > 0
		if (t.Kind == domain.KindIncome && !positive) || (t.Kind == domain.KindExpense && positive) {
			errs = append(errs, msgKindSignMismatch)
		}
	}

	return Result{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
