package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChange_RoutingKeyAndJSON(t *testing.T) {
	id := uuid.New()
	c := NewChange(CollectionTransactions, OpReplace, id)
	assert.Equal(t, "transactions.replace", c.RoutingKey())

	b, err := c.ToJSON()
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "transactions", got["collection"])
	assert.Equal(t, "replace", got["op"])
	assert.Equal(t, id.String(), got["id"])
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Publisher = &r
	require.NoError(t, p.Publish(context.Background(), NewChange(CollectionAccounts, OpCreate, uuid.New())))
	require.NoError(t, Nop{}.Publish(context.Background(), Change{}))
	assert.Len(t, r.Changes(), 1)
}
