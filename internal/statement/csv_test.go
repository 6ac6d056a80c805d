package statement

import (
	"errors"
	"testing"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// fixedCategorizer returns the same category for every description.
type fixedCategorizer struct {
	category string
}

func (c fixedCategorizer) Guess(description string) string {
	return c.category
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(fixedCategorizer{category: "Outras Despesas"}, "Conta Teste")
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	return p
}

func TestNewParser(t *testing.T) {
	if _, err := NewParser(nil, "Conta"); err == nil {
		t.Error("nil categorizer should be rejected")
	}
	if _, err := NewParser(fixedCategorizer{}, ""); err == nil {
		t.Error("empty default account should be rejected")
	}
}

func TestParseRecognizedFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "semicolon separated portuguese header",
			text: "Data;Descrição;Valor\n15/01/25;Mercado Central;-230,50\n16/01/25;Salario;5000,00",
			want: 2,
		},
		{
			name: "comma separated english header",
			text: "Date,Description,Amount\n15/01/25,Grocery Store,-230.50",
			want: 1,
		},
		{
			name: "column order does not matter",
			text: "Valor;Data\n-42,00;15/01/25",
			want: 1,
		},
		{
			name: "header synonyms by substring",
			text: "Data Lançamento;Histórico;Valor (R$)\n15/01/25;Padaria;-15,00",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := newTestParser(t).Parse(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("got %d records; want %d", len(records), tt.want)
			}
		})
	}
}

func TestParseUnrecognizedFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "missing amount column",
			text: "Data;Descrição\n15/01/25;Mercado",
		},
		{
			name: "missing date column",
			text: "Descrição;Valor\nMercado;-230,50",
		},
		{
			name: "no header at all",
			text: "foo;bar\n1;2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser(t).Parse(tt.text)
			if !errors.Is(err, ErrUnrecognizedFormat) {
				t.Errorf("expected ErrUnrecognizedFormat, got %v", err)
			}
		})
	}
}

func TestParseTooShortInput(t *testing.T) {
	for _, text := range []string{"", "Data;Valor", "   \n  "} {
		records, err := newTestParser(t).Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", text, err)
		}
		if len(records) != 0 {
			t.Errorf("Parse(%q) = %d records; want 0", text, len(records))
		}
	}
}

func TestParseSkipsBadRows(t *testing.T) {
	text := "Data;Descrição;Valor\n" +
		"15/01/25;Mercado;-230,50\n" +
		";Sem data;-10,00\n" +
		"16/01/25;Valor invalido;abc\n" +
		"17/01/25;Padaria;-15,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2 (bad rows skipped silently)", len(records))
	}
	if records[0].Description != "Mercado" || records[1].Description != "Padaria" {
		t.Errorf("wrong rows survived: %q, %q", records[0].Description, records[1].Description)
	}
}

func TestParseAmountAndKind(t *testing.T) {
	text := "Data;Descrição;Valor\n" +
		"15/01/25;Despesa;-230,50\n" +
		"16/01/25;Receita;1500,75\n" +
		"17/01/25;Zerado;0,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records; want 3", len(records))
	}

	if records[0].Amount != -230.50 || records[0].Kind != domain.KindExpense {
		t.Errorf("negative row: amount=%v kind=%s", records[0].Amount, records[0].Kind)
	}
	if records[1].Amount != 1500.75 || records[1].Kind != domain.KindIncome {
		t.Errorf("positive row: amount=%v kind=%s", records[1].Amount, records[1].Kind)
	}
	// Zero is non-negative, so it lands on the income side.
	if records[2].Kind != domain.KindIncome {
		t.Errorf("zero row kind=%s; want income", records[2].Kind)
	}
}

func TestParseDateNormalization(t *testing.T) {
	text := "Data;Valor\n2025-01-15;-10,00\n15/01/2025;-20,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}
	for _, r := range records {
		if r.Date != "15/01/25" {
			t.Errorf("date = %q; want normalized 15/01/25", r.Date)
		}
	}
}

func TestParseDescriptionFallback(t *testing.T) {
	// The blank-description row is the third data row; numbering counts the
	// skipped row before it.
	text := "Data;Descrição;Valor\n" +
		"15/01/25;Primeira;-10,00\n" +
		"16/01/25;Quebrada;abc\n" +
		"17/01/25;;-30,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}
	if records[1].Description != "Lançamento 3" {
		t.Errorf("fallback description = %q; want \"Lançamento 3\"", records[1].Description)
	}
}

func TestParseCategoryResolution(t *testing.T) {
	t.Run("explicit column wins", func(t *testing.T) {
		text := "Data;Descrição;Valor;Categoria\n15/01/25;Mercado;-10,00;Alimentação"
		records, err := newTestParser(t).Parse(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Category != "Alimentação" {
			t.Errorf("category = %q; want explicit Alimentação", records[0].Category)
		}
	})

	t.Run("guesser fills missing category", func(t *testing.T) {
		text := "Data;Descrição;Valor\n15/01/25;Mercado;-10,00"
		records, err := newTestParser(t).Parse(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Category != "Outras Despesas" {
			t.Errorf("category = %q; want guessed Outras Despesas", records[0].Category)
		}
	})
}

func TestParseQuotedFields(t *testing.T) {
	text := "Data;Descrição;Valor\n15/01/25;\"Restaurante; Almoço\";-45,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	if records[0].Description != "Restaurante; Almoço" {
		t.Errorf("description = %q; separator inside quotes must not split", records[0].Description)
	}
}

func TestParseTagsAccountAndStatus(t *testing.T) {
	text := "Data;Valor\n15/01/25;-10,00"

	records, err := newTestParser(t).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Account != "Conta Teste" {
		t.Errorf("account = %q; want default account", records[0].Account)
	}
	if records[0].Status != domain.StatusConfirmed {
		t.Errorf("status = %s; want confirmed", records[0].Status)
	}
	if records[0].ID != 0 {
		t.Errorf("id = %d; parser must not assign ids", records[0].ID)
	}
}
