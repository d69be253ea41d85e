package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "corr-1", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything,
		mock.AnythingOfType("ports.OrderStatusChangedEvent")).Return(nil).Once()

	h := commands.NewCreateOrderCommandHandler(factory, publisher, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "EXT-100", created.ExternalOrderID().Value())
	assert.Equal(t, order.Calculated, created.Status())
	assert.Equal(t, "BRL 190.00", created.TotalAmount().String())
	assert.Equal(t, 2, created.ItemCount())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_PublishesStatusChange(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "corr-1", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything,
		mock.MatchedBy(func(event ports.OrderStatusChangedEvent) bool {
			return event.PreviousStatus == order.Received &&
				event.CurrentStatus == order.Calculated &&
				event.CustomerID == "EXT-100" &&
				event.CorrelationID == "corr-1"
		})).Return(nil).Once()

	h := commands.NewCreateOrderCommandHandler(factory, publisher, testLogger())
	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_PublishFailureDoesNotFailCreate(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	h := commands.NewCreateOrderCommandHandler(factory, publisher, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, nil, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_DuplicateExternalOrderID(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(true, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, errs.ErrDuplicateValue)
	repo.AssertNotCalled(t, "Add")
	uow.AssertNotCalled(t, "Commit")
}

func TestCreateOrderCommandHandler_Handle_DuplicateFromStorageConstraint(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "", validItems())
	require.NoError(t, err)

	// The advisory pre-check passes but the unique constraint fires on save,
	// simulating a concurrent create racing past the existence check.
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).
		Return(errs.NewDuplicateValueError("externalOrderId", "EXT-100")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, errs.ErrDuplicateValue)
	uow.AssertNotCalled(t, "Commit")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "", validItems())
	require.NoError(t, err)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, nil, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "BRL", "", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := commands.NewCreateOrderCommandHandler(factory, publisher, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
	publisher.AssertNotCalled(t, "PublishOrderStatusChanged")
}

func TestCreateOrderCommandHandler_Handle_DefaultsCurrency(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("EXT-100", "", "", validItems())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ExistsByExternalOrderID", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "BRL", created.TotalAmount().Currency())
}
