package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, listFilter(EventFilter{}))

	f := listFilter(EventFilter{Title: "a.b"})
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 1)
	assert.Equal(t, bson.M{"title": bson.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])

	f = listFilter(EventFilter{Title: "gala", Description: "jazz"})
	or, ok = f["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 2)
}
