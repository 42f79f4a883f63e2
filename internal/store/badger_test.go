// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{
		ID:          "r-100",
		Name:        "Trattoria Forno",
		Address:     "22 Mulberry St",
		Rating:      4.5,
		ReviewCount: 812,
		Coordinates: "40.7158,-73.9970",
		ZipCode:     "10013",
		Cuisine:     "italian",
	}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.GetByID(ctx, "r-100")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got)
}

func TestGetMissingIDReturnsNil(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutRejectsEmptyID(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Put(context.Background(), &Record{Name: "nameless"}))
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &Record{ID: "r-1", Name: "Old Name"}))
	require.NoError(t, s.Put(ctx, &Record{ID: "r-1", Name: "New Name"}))

	got, err := s.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}

func TestGetCancelledContext(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetByID(ctx, "r-1")
	assert.Error(t, err)
}
