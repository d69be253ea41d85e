package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkOrderFailedCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := storedReceivedOrder(t)
	cmd, err := commands.NewMarkOrderFailedCommand(aggregate.ID(), "upstream rejected payment")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything,
		mock.MatchedBy(func(event ports.OrderStatusChangedEvent) bool {
			return event.PreviousStatus == order.Received &&
				event.CurrentStatus == order.Failed
		})).Return(nil).Once()

	h := commands.NewMarkOrderFailedCommandHandler(factory, publisher, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.IsFailed())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestMarkOrderFailedCommandHandler_Handle_RejectsAvailableOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := storedCalculatedOrder(t)
	require.NoError(t, aggregate.MarkAsAvailable())
	cmd, err := commands.NewMarkOrderFailedCommand(aggregate.ID(), "")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMarkOrderFailedCommandHandler(factory, nil, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	repo.AssertNotCalled(t, "Update")
}

func TestMarkOrderFailedCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.MarkOrderFailedCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	h := commands.NewMarkOrderFailedCommandHandler(factory, nil, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, updated)
	factory.AssertNotCalled(t, "Create")
}
