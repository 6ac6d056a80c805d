// Package report computes view-ready aggregates over a transaction
// snapshot: cash-flow series, category breakdowns, per-account balances,
// and dashboard totals.
//
// Every function is pure: it receives its full input, mutates nothing, and
// returns the same output for the same snapshot regardless of call order.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// ChartPalette is the fixed cyclic palette used for categories that the
// category plan does not name.
var ChartPalette = []string{
	"#10b981", "#3b82f6", "#fbbf24", "#ef4444",
	"#ec4899", "#f97316", "#6366f1",
}

// Fallback category labels for transactions without a category.
const (
	fallbackIncomeCategory  = "Outras Receitas"
	fallbackExpenseCategory = "Outras Despesas"
)

// CashFlowPoint is one entry of the running-balance series. Exactly one of
// Balance and NegativeBalance is set: the cumulative total lands in Balance
// while it is non-negative and in NegativeBalance otherwise. The split
// feeds a two-series line chart whose negative series renders in a warning
// color, and the union of the two fields recovers the exact running total.
type CashFlowPoint struct {
	Date            string   `json:"date"`
	Balance         *float64 `json:"balance"`
	NegativeBalance *float64 `json:"negativeBalance"`
}

// CashFlow groups confirmed transactions by date string, orders the groups
// chronologically, and sweeps a running cumulative balance across them.
//
// Only confirmed transactions contribute; pending, scheduled, and
// reconciled entries are excluded from realized running balances.
// Unparseable dates sort by the zero value the fallback parse produced,
// which puts them ahead of real dates. That ordering is accepted behavior,
// not something to silently repair.
func CashFlow(transactions []domain.Transaction) []CashFlowPoint {
	sums := make(map[string]float64)
	var order []string
	for _, t := range transactions {
		if t.Status != domain.StatusConfirmed {
			continue
		}
		if _, seen := sums[t.Date]; !seen {
			order = append(order, t.Date)
		}
		sums[t.Date] += t.Amount
	}

	sort.SliceStable(order, func(i, j int) bool {
		ti, _ := domain.ParseDate(order[i])
		tj, _ := domain.ParseDate(order[j])
		return ti.Before(tj)
	})

	points := make([]CashFlowPoint, 0, len(order))
	var running float64
	for _, date := range order {
		running += sums[date]
		value := running
		point := CashFlowPoint{Date: date}
		if value >= 0 {
			point.Balance = &value
		} else {
			point.NegativeBalance = &value
		}
		points = append(points, point)
	}

	return points
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// CategorySummary sums absolute amounts per category name for the given
// kind and returns the slices sorted descending by amount, with each
// slice's share of the total and a display color.
//
// since, when non-zero, restricts the summary to transactions on or after
// that day. Transactions whose dates do not parse are always included; the
// window cannot exclude what it cannot order.
//
// Colors resolve against the category plan first (top-level names, then
// every subcategory list); names the plan does not know are assigned from
// ChartPalette in descending-amount order, so the largest unplanned slice
// always gets the first palette color.
func CategorySummary(transactions []domain.Transaction, kind domain.Kind, categories []domain.Category, since time.Time) []CategoryTotal {
	fallbackName := fallbackExpenseCategory
	if kind == domain.KindIncome {
		fallbackName = fallbackIncomeCategory
	}

	sums := make(map[string]float64)
	var order []string
	for _, t := range transactions {
		if t.Kind != kind {
			continue
		}
		if !since.IsZero() {
			if parsed, ok := domain.ParseDate(t.Date); ok && parsed.Before(since) {
				continue
			}
		}
		name := t.Category
		if name == "" {
			name = fallbackName
		}
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] += math.Abs(t.Amount)
	}

	totals := make([]CategoryTotal, 0, len(order))
	var total float64
	for _, name := range order {
		totals = append(totals, CategoryTotal{Name: name, Amount: sums[name]})
		total += sums[name]
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})

	paletteIdx := 0
	for i := range totals {
		if total > 0 {
			totals[i].Percent = totals[i].Amount / total * 100
		}
		if color, ok := planColor(categories, totals[i].Name); ok {
			totals[i].Color = color
		} else {
			totals[i].Color = ChartPalette[paletteIdx%len(ChartPalette)]
			paletteIdx++
		}
	}

	return totals
}

// planColor looks a category name up in the plan: top-level categories
// first, then every subcategory list.
func planColor(categories []domain.Category, name string) (string, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c.Color, true
		}
	}
	for _, c := range categories {
		for _, sub := range c.Subcategories {
			if sub.Name == name {
				return sub.Color, true
			}
		}
	}
	return "", false
}

// AccountBalance is the realized and projected balance of one account.
type AccountBalance struct {
	Account   string  `json:"account"`
	Confirmed float64 `json:"confirmed"`
	Projected float64 `json:"projected"`
}

// AccountBalances seeds each known account with its polarity-signed opening
// balance, adds every confirmed transaction to the realized total, and
// folds pending transactions into the projected total on top of it.
//
// Known accounts come out in list order. Accounts that appear only in
// transactions are still included, seeded at zero, after the known ones in
// first-seen order.
func AccountBalances(transactions []domain.Transaction, accounts []domain.Account) []AccountBalance {
	confirmed := make(map[string]float64)
	pending := make(map[string]float64)
	var order []string

	for _, a := range accounts {
		confirmed[a.Name] = a.SignedOpeningBalance()
		order = append(order, a.Name)
	}

	for _, t := range transactions {
		if _, known := confirmed[t.Account]; !known {
			confirmed[t.Account] = 0
			order = append(order, t.Account)
		}
		switch t.Status {
		case domain.StatusConfirmed:
			confirmed[t.Account] += t.Amount
		case domain.StatusPending:
			pending[t.Account] += t.Amount
		}
	}

	balances := make([]AccountBalance, 0, len(order))
	for _, name := range order {
		balances = append(balances, AccountBalance{
			Account:   name,
			Confirmed: confirmed[name],
			Projected: confirmed[name] + pending[name],
		})
	}

	return balances
}

// Totals carries per-kind absolute sums for the confirmed-only subset and
// the confirmed+pending ("projected") subset. The two computations differ
// only in the input filter.
type Totals struct {
	ConfirmedIncome  float64 `json:"confirmedIncome"`
	ConfirmedExpense float64 `json:"confirmedExpense"`
	ProjectedIncome  float64 `json:"projectedIncome"`
	ProjectedExpense float64 `json:"projectedExpense"`
}

// ComputeTotals sums absolute amounts per kind across the realized and
// projected status subsets.
func ComputeTotals(transactions []domain.Transaction) Totals {
	var totals Totals
	for _, t := range transactions {
		abs := math.Abs(t.Amount)
		realized := t.Status == domain.StatusConfirmed
		projected := realized || t.Status == domain.StatusPending
		switch t.Kind {
		case domain.KindIncome:
			if realized {
				totals.ConfirmedIncome += abs
			}
			if projected {
				totals.ProjectedIncome += abs
			}
		case domain.KindExpense:
			if realized {
				totals.ConfirmedExpense += abs
			}
			if projected {
				totals.ProjectedExpense += abs
			}
		}
	}
	return totals
}

// Summary is the dashboard header block: signed totals and status counts.
type Summary struct {
	Total    float64        `json:"total"`
	Incomes  float64        `json:"incomes"`
	Expenses float64        `json:"expenses"`
	Counts   map[string]int `json:"counts"`
}

// Dashboard computes the overview numbers: the signed grand total, signed
// income and expense sums, and confirmed/pending counts. Every status
// contributes; anything not confirmed counts as pending.
func Dashboard(transactions []domain.Transaction) Summary {
	s := Summary{Counts: map[string]int{"pending": 0, "confirmed": 0}}
	for _, t := range transactions {
		s.Total += t.Amount
		if t.Kind == domain.KindIncome {
			s.Incomes += t.Amount
		} else {
			s.Expenses += t.Amount
		}
		if t.Status == domain.StatusConfirmed {
			s.Counts["confirmed"]++
		} else {
			s.Counts["pending"]++
		}
	}
	return s
}

// MonthPoint is one bar pair of the monthly cash-flow chart.
type MonthPoint struct {
	Name    string  `json:"name"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Portuguese short month names for chart labels.
var ptMonths = []string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// MonthlyFlow groups transactions into calendar months sorted
// chronologically, summing signed income and absolute expense per month.
// months, when positive, keeps only the window starting that many months
// before now (aligned to the first of the month). Transactions with
// unparseable dates are dropped; a month chart has no slot for them.
func MonthlyFlow(transactions []domain.Transaction, months int, now time.Time) []MonthPoint {
	var from time.Time
	if months > 0 {
		from = time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, time.Local)
	}

	type bucket struct {
		point MonthPoint
		key   time.Time
	}
	buckets := make(map[time.Time]*bucket)

	for _, t := range transactions {
		parsed, ok := domain.ParseDate(t.Date)
		if !ok {
			continue
		}
		if !from.IsZero() && parsed.Before(from) {
			continue
		}
		key := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.Local)
		b, exists := buckets[key]
		if !exists {
			b = &bucket{
				point: MonthPoint{Name: fmt.Sprintf("%s %d", ptMonths[key.Month()-1], key.Year())},
				key:   key,
			}
			buckets[key] = b
		}
		if t.Kind == domain.KindIncome {
			b.point.Income += t.Amount
		} else {
			b.point.Expense += math.Abs(t.Amount)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key.Before(ordered[j].key)
	})

	points := make([]MonthPoint, len(ordered))
	for i, b := range ordered {
		points[i] = b.point
	}
	return points
}
