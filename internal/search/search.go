// SPDX-License-Identifier: MIT

// Package search resolves restaurant ids for a cuisine term. The index is
// read-only at fulfillment time; Add exists for seeding and tests.
package search

import "context"

// Index is the search collaborator.
type Index interface {
	// Query returns the ordered restaurant ids indexed under term. The order
	// is the index's own; callers do not re-rank.
	Query(ctx context.Context, term string) ([]string, error)
	// Add appends ids to the posting list for term.
	Add(ctx context.Context, term string, ids ...string) error
}
