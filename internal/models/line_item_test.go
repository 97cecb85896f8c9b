package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemAcceptsBothKeys(t *testing.T) {
	var items []LineItem
	err := json.Unmarshal([]byte(`[{"id":3,"quantity":2},{"service_id":7}]`), &items)
	require.NoError(t, err)

	assert.Equal(t, []LineItem{
		{ServiceID: 3, Quantity: 2},
		{ServiceID: 7, Quantity: 1},
	}, items)
}

func TestLineItemRoundTripIsStable(t *testing.T) {
	in := []LineItem{{ServiceID: 1, Quantity: 1}, {ServiceID: 2, Quantity: 3}}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"service_id":1,"quantity":1},{"service_id":2,"quantity":3}]`, string(b))

	var out []LineItem
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestLineItemRejectsBadInput(t *testing.T) {
	var li LineItem
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"id":1,"quantity":0}`), &li), ErrInvalidQuantity)
	assert.Error(t, json.Unmarshal([]byte(`{"quantity":2}`), &li))
}
