// Package importer orchestrates the statement import flow: parse the
// uploaded text, deduplicate against the ledger, and append the accepted
// records. It is the only writer on the import path; the parser and the
// merge stay pure.
package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rumor-ml/commons.systems/findash/internal/dedup"
	"github.com/rumor-ml/commons.systems/findash/internal/domain"
	"github.com/rumor-ml/commons.systems/findash/internal/statement"
)

// SessionStatus represents the lifecycle of an import session.
type SessionStatus string

const (
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusError      SessionStatus = "error"
)

var validSessionStatuses = map[SessionStatus]struct{}{
	SessionStatusProcessing: {}, SessionStatusCompleted: {}, SessionStatusError: {},
}

// ValidateSessionStatus checks if session status is valid
func ValidateSessionStatus(s SessionStatus) bool {
	_, ok := validSessionStatuses[s]
	return ok
}

// Session is the persisted audit record of one import attempt.
type Session struct {
	ID         string        `json:"id"`
	FileName   string        `json:"fileName"`
	Status     SessionStatus `json:"status"`
	Parsed     int           `json:"parsed"`
	Imported   int           `json:"imported"`
	Duplicates int           `json:"duplicates"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Validate checks if the Session has valid data
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	if !ValidateSessionStatus(s.Status) {
		return fmt.Errorf("invalid session status: %s", s.Status)
	}
	if s.Parsed < 0 || s.Imported < 0 || s.Duplicates < 0 {
		return fmt.Errorf("session counts cannot be negative")
	}
	return nil
}

// Result reports the outcome of one import: how many rows the parser
// produced, how many survived deduplication, and how many were dropped as
// duplicates. Parsed == Imported + Duplicates always holds.
type Result struct {
	SessionID  string `json:"sessionId"`
	Parsed     int    `json:"parsed"`
	Imported   int    `json:"imported"`
	Duplicates int    `json:"duplicates"`
}

// Importer runs statement text through the parse/dedup/append flow against
// a ledger owned by the caller.
type Importer struct {
	parser *statement.Parser
}

// New creates an importer around a statement parser.
func New(parser *statement.Parser) (*Importer, error) {
	if parser == nil {
		return nil, fmt.Errorf("parser cannot be nil")
	}
	return &Importer{parser: parser}, nil
}

// Import parses the statement text and merges the results into the ledger.
//
// A parse failure (unrecognized format) is terminal: the ledger is left
// untouched and the error is returned. Row-level problems inside a
// recognized statement were already skipped by the parser and never reach
// this stage.
func (im *Importer) Import(ledger *domain.Ledger, text string) (Result, error) {
	result := Result{SessionID: uuid.NewString()}

	records, err := im.parser.Parse(text)
	if err != nil {
		return result, fmt.Errorf("statement import failed: %w", err)
	}
	result.Parsed = len(records)

	merge := dedup.Merge(ledger.Transactions(), records, ledger.NextID())
	if err := ledger.Append(merge.Accepted, merge.NextID); err != nil {
		return result, fmt.Errorf("failed to append imported transactions: %w", err)
	}

	result.Imported = len(merge.Accepted)
	result.Duplicates = merge.Duplicates
	return result, nil
}

// NewSession builds the audit record for a finished import attempt. err may
// be nil; a non-nil err marks the session as failed and records the message.
func NewSession(fileName string, result Result, err error) Session {
	session := Session{
		ID:         result.SessionID,
		FileName:   fileName,
		Status:     SessionStatusCompleted,
		Parsed:     result.Parsed,
		Imported:   result.Imported,
		Duplicates: result.Duplicates,
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		session.Status = SessionStatusError
		session.Error = err.Error()
	}
	return session
}
