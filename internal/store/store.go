// SPDX-License-Identifier: MIT

// Package store holds the restaurant record store, read-only from the
// fulfillment pipeline's perspective. Bulk ingestion happens out of band.
package store

import "context"

// Record is one restaurant document.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Coordinates string  `json:"coordinates"`
	ZipCode     string  `json:"zipCode"`
	Cuisine     string  `json:"cuisine"`
}

// Store is the record store collaborator.
type Store interface {
	// GetByID returns the record for id, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*Record, error)
	// Put writes a record, used by seeding and tests.
	Put(ctx context.Context, rec *Record) error
}
