package queries_test

import (
	"testing"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderByIDQuery_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewGetOrderByIDQuery(orderID)

	require.NoError(t, err)
	assert.True(t, query.OrderID().IsEqual(orderID))
	require.NoError(t, query.Validate())
}

func TestNewGetOrderByIDQuery_InvalidOrderID(t *testing.T) {
	var orderID kernel.UUID

	_, err := queries.NewGetOrderByIDQuery(orderID)

	require.Error(t, err)
}

func TestGetOrderByIDQuery_Validate_ZeroValue(t *testing.T) {
	var query queries.GetOrderByIDQuery

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrderByIDQueryIsNotConstructed)
}
