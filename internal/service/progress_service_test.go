package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProgressEntries(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	c := f.addClient(t, "John", "2024-01-15", 100, true)

	_, err := f.progress.AddEntry(ctx, f.userID, c.ID, mustDate(t, "2024-02-01"), 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.progress.AddEntry(ctx, f.userID, primitive.NewObjectID(), mustDate(t, "2024-02-01"), 80, "")
	assert.ErrorIs(t, err, ErrClientNotFound)

	second, err := f.progress.AddEntry(ctx, f.userID, c.ID, mustDate(t, "2024-02-10"), 79.2, " after holidays ")
	require.NoError(t, err)
	assert.Equal(t, "after holidays", second.Notes)
	_, err = f.progress.AddEntry(ctx, f.userID, c.ID, mustDate(t, "2024-02-01"), 80, "")
	require.NoError(t, err)

	entries, err := f.progress.ListEntries(ctx, f.userID, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, mustDate(t, "2024-02-01"), entries[0].Date)

	require.NoError(t, f.progress.DeleteEntry(ctx, f.userID, second.ID))
	assert.ErrorIs(t, f.progress.DeleteEntry(ctx, f.userID, second.ID), ErrProgressNotFound)
}
