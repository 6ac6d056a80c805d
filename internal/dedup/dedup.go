// Package dedup provides import deduplication via SHA256 fingerprinting.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
)

// Fingerprint creates a SHA256 hash of the duplicate identity of a record:
// date, absolute amount, and description.
// Format: SHA256("{date}|{absAmount}|{description}")
//
// The comparison is exact by contract: no description normalization, no
// amount tolerance band. The absolute amount is formatted with the shortest
// round-trip representation so numeric equality is preserved bit for bit.
func Fingerprint(date string, amount float64, description string) string {
	absAmount := strconv.FormatFloat(math.Abs(amount), 'g', -1, 64)
	input := fmt.Sprintf("%s|%s|%s", date, absAmount, description)

	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// MergeResult holds the outcome of merging a staged import batch.
type MergeResult struct {
	Accepted   []domain.Transaction // non-duplicates, with ids assigned
	NextID     int                  // advanced id counter
	Duplicates int                  // candidates dropped
}

// Merge compares a staged import batch against the existing collection.
// A candidate is a duplicate iff an existing record matches its date,
// description, and absolute amount exactly. Non-duplicates are assigned
// sequential ids starting at nextID, preserving input order. Duplicates are
// dropped silently; the caller reports the count.
//
// Only existing records count as duplicates. Two identical rows inside one
// batch are both accepted: equal same-day purchases are legitimate and the
// importer has no way to tell them apart from a doubled line.
//
// The fingerprint index makes this O(existing + candidates); the contract
// is unchanged from the naive pairwise comparison.
func Merge(existing, candidates []domain.Transaction, nextID int) MergeResult {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[Fingerprint(t.Date, t.Amount, t.Description)] = struct{}{}
	}

	result := MergeResult{NextID: nextID}
	for _, c := range candidates {
		fp := Fingerprint(c.Date, c.Amount, c.Description)
		if _, dup := seen[fp]; dup {
			result.Duplicates++
			continue
		}

		c.ID = result.NextID
		result.NextID++
		result.Accepted = append(result.Accepted, c)
	}

	return result
}
