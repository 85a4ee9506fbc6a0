package request

import (
	"testing"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRequest_ToEvent(t *testing.T) {
	t.Run("UPDATE", func(t *testing.T) {
		req := &EventRequest{
			Type:      "update",
			Table:     "books",
			Record:    map[string]any{"id": "b1", "price": 40},
			OldRecord: map[string]any{"id": "b1", "price": 50},
			Schema:    "public",
		}

		ev, err := req.ToEvent()
		require.NoError(t, err)
		assert.Equal(t, contract.OperationUpdate, ev.Operation)
		assert.Equal(t, "books", ev.Table)
		assert.Equal(t, req.Record, ev.Record)
		assert.Equal(t, req.OldRecord, ev.PreviousRecord)
	})

	t.Run("지원하지 않는 종류", func(t *testing.T) {
		req := &EventRequest{Type: "DELETE", Table: "books", Record: map[string]any{}}

		_, err := req.ToEvent()
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestEventRequest_Target(t *testing.T) {
	assert.Equal(t, contract.Target{Topic: "news"}, (&EventRequest{}).Target("news"))
	assert.Equal(t, contract.Target{Tokens: []string{"t1"}}, (&EventRequest{Tokens: []string{"t1"}}).Target(""))
	assert.Equal(t, contract.Target{}, (&EventRequest{}).Target(""))
}
