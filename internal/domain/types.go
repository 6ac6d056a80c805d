// Package domain holds the core types for the finance ledger: transactions,
// the category plan, accounts, and the ledger collection that owns them.
package domain

import (
	"encoding/json"
	"fmt"
)

// Kind represents the transaction direction enum.
// Use ValidateKind to ensure validity before use.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Status represents the transaction lifecycle enum. Only confirmed
// transactions contribute to realized balances; pending ones are folded
// into projected balances.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusScheduled  Status = "scheduled"
	StatusReconciled Status = "reconciled"
)

// AccountType represents the account type enum.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCard       AccountType = "card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Polarity determines the sign applied to an account's opening balance when
// it is folded into running totals: creditor counts positive, debtor negative.
type Polarity string

const (
	PolarityCreditor Polarity = "creditor"
	PolarityDebtor   Polarity = "debtor"
)

var (
	validKinds = map[Kind]struct{}{
		KindIncome: {}, KindExpense: {},
	}

	validStatuses = map[Status]struct{}{
		StatusPending: {}, StatusConfirmed: {},
		StatusScheduled: {}, StatusReconciled: {},
	}

	validAccountTypes = map[AccountType]struct{}{
		AccountTypeChecking: {}, AccountTypeSavings: {},
		AccountTypeCard: {}, AccountTypeCash: {},
		AccountTypeInvestment: {}, AccountTypeOther: {},
	}

	validPolarities = map[Polarity]struct{}{
		PolarityCreditor: {}, PolarityDebtor: {},
	}
)

// ValidateKind checks if kind is valid
func ValidateKind(k Kind) bool {
	_, ok := validKinds[k]
	return ok
}

// ValidateStatus checks if status is valid
func ValidateStatus(s Status) bool {
	_, ok := validStatuses[s]
	return ok
}

// ValidateAccountType checks if account type is valid
func ValidateAccountType(t AccountType) bool {
	_, ok := validAccountTypes[t]
	return ok
}

// ValidatePolarity checks if polarity is valid
func ValidatePolarity(p Polarity) bool {
	_, ok := validPolarities[p]
	return ok
}

// Transaction is a single ledger entry. JSON field names match the wire
// shape consumed by the dashboard frontend.
//
// Sign convention:
//
//	Positive amount = income/inflow
//	Negative amount = expense/outflow
//
// Kind encodes the direction redundantly with the sign; the validator
// rejects records where the two disagree.
type Transaction struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"` // DD/MM/YY
	Description string  `json:"desc"`
	Category    string  `json:"cat"`
	Account     string  `json:"account"`
	Amount      float64 `json:"value"`
	Status      Status  `json:"status"`
	Kind        Kind    `json:"type"`
}

// Subcategory is a nested entry of the category plan
type Subcategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Category is a top-level entry of the category plan. Kind partitions which
// transactions reference it in the UI; the data model does not enforce
// referential integrity, so unknown category names on transactions are
// tolerated and displayed as-is.
type Category struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Kind          Kind          `json:"kind"`
	Color         string        `json:"color"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Account is a named financial account with an opening balance. The opening
// balance is stored as an absolute value; Polarity carries its sign.
type Account struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Type               AccountType `json:"type"`
	Currency           string      `json:"currency"`
	OpeningBalance     float64     `json:"openingBalance"`
	OpeningBalanceDate string      `json:"openingBalanceDate"` // DD/MM/YY
	Polarity           Polarity    `json:"polarity"`
}

// SignedOpeningBalance returns the opening balance with the polarity sign
// applied: creditor positive, debtor negative.
func (a Account) SignedOpeningBalance() float64 {
	if a.Polarity == PolarityDebtor {
		return -a.OpeningBalance
	}
	return a.OpeningBalance
}

// NewAccount creates a validated account. The opening balance is normalized
// to its absolute value.
func NewAccount(id int, name string, accountType AccountType, currency string, openingBalance float64, openingBalanceDate string, polarity Polarity) (*Account, error) {
	if id <= 0 {
		return nil, fmt.Errorf("account ID must be positive, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("account name cannot be empty")
	}
	if !ValidateAccountType(accountType) {
		return nil, fmt.Errorf("invalid account type: %s", accountType)
	}
	if !ValidatePolarity(polarity) {
		return nil, fmt.Errorf("invalid polarity: %s", polarity)
	}
	if openingBalance < 0 {
		openingBalance = -openingBalance
	}

	return &Account{
		ID:                 id,
		Name:               name,
		Type:               accountType,
		Currency:           currency,
		OpeningBalance:     openingBalance,
		OpeningBalanceDate: openingBalanceDate,
		Polarity:           polarity,
	}, nil
}

// Ledger owns the working transaction collection and the monotonic id
// counter. Ids are unique for the ledger's lifetime and never reused;
// removal is immediate and irreversible.
//
// The ledger itself is a plain mutable value owned by the caller. All
// aggregation runs on snapshots obtained via Transactions(), so concurrent
// readers must be coordinated by the owner.
type Ledger struct {
	transactions []Transaction
	nextID       int
}

// NewLedger creates a ledger seeded with existing transactions and a next-id
// counter. If the counter is not ahead of every existing id it is advanced,
// so ids stay unique even against inconsistent persisted state.
func NewLedger(transactions []Transaction, nextID int) *Ledger {
	if nextID < 1 {
		nextID = 1
	}
	for _, t := range transactions {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}
	return &Ledger{
		transactions: append([]Transaction(nil), transactions...),
		nextID:       nextID,
	}
}

// Transactions returns a defensive copy of the transaction slice
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.transactions...)
}

// Len returns the number of transactions
func (l *Ledger) Len() int {
	return len(l.transactions)
}

// NextID returns the current id counter without consuming it
func (l *Ledger) NextID() int {
	return l.nextID
}

// Add assigns the next id to the transaction and prepends it to the
// collection (newest first, matching display order). Returns the stored
// record. Validation is the caller's responsibility.
func (l *Ledger) Add(t Transaction) Transaction {
	t.ID = l.nextID
	l.nextID++
	l.transactions = append([]Transaction{t}, l.transactions...)
	return t
}

// Append adds already-identified transactions to the end of the collection
// and advances the id counter. Used by the import merge path, which assigns
// sequential ids itself.
func (l *Ledger) Append(ts []Transaction, newNextID int) error {
	for _, t := range ts {
		if t.ID <= 0 {
			return fmt.Errorf("imported transaction %q has no id", t.Description)
		}
	}
	if newNextID < l.nextID {
		return fmt.Errorf("id counter cannot move backwards: %d < %d", newNextID, l.nextID)
	}
	l.transactions = append(l.transactions, ts...)
	l.nextID = newNextID
	return nil
}

// Get returns the transaction with the given id
func (l *Ledger) Get(id int) (Transaction, bool) {
	for _, t := range l.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// Replace swaps the full record with the given id. The replacement keeps
// the original id regardless of what the caller set.
func (l *Ledger) Replace(id int, t Transaction) error {
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			t.ID = id
			l.transactions[i] = t
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", id)
}

// Remove deletes the transaction with the given id
func (l *Ledger) Remove(id int) error {
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", id)
}

// ByStatus returns the transactions with the given status, in collection order
func (l *Ledger) ByStatus(s Status) []Transaction {
	var out []Transaction
	for _, t := range l.transactions {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}

// TotalBalance sums every amount in the collection regardless of status
func (l *Ledger) TotalBalance() float64 {
	var sum float64
	for _, t := range l.transactions {
		sum += t.Amount
	}
	return sum
}

// MarshalJSON implements custom JSON marshaling for Ledger
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Transactions []Transaction `json:"transactions"`
		NextID       int           `json:"nextId"`
	}{
		Transactions: l.transactions,
		NextID:       l.nextID,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Ledger
func (l *Ledger) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Transactions []Transaction `json:"transactions"`
		NextID       int           `json:"nextId"`
	}{}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	restored := NewLedger(aux.Transactions, aux.NextID)
	*l = *restored
	return nil
}
