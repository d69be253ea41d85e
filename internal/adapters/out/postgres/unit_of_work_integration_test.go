package postgres_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	postgres_adapter "orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	// Create multiple unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Verify instances are different
	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	// Verify both instances provide access to the order repository
	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Test multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	// Test commit
	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	// Test rollback on new transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test commit without begin
	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	// Test rollback without begin
	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder := suite.createReceivedOrder()

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Add order within transaction
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order exists within transaction
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify order persists after commit using new unit of work
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder := suite.createReceivedOrder()

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Add order within transaction
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order exists within transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// Rollback transaction
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify order does not exist after rollback using new unit of work
	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
}

// TestUnitOfWork_OrderLifecycleWorkflow tests the complete order lifecycle
// from receipt through processing, calculation and availability within
// transaction boundaries.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderLifecycleWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Step 1: Create and persist a new order
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	testOrder := suite.createReceivedOrder()
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Step 2: Process the order and calculate its total
	processUow := suite.factory.Create()
	err = processUow.Begin(ctx)
	suite.Require().NoError(err)

	processingOrder, err := processUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = processingOrder.StartProcessing()
	suite.Require().NoError(err)
	err = processingOrder.CalculateTotal()
	suite.Require().NoError(err)

	err = processUow.OrderRepository().Update(ctx, processingOrder)
	suite.Require().NoError(err)

	err = processUow.Commit(ctx)
	suite.Require().NoError(err)

	// Step 3: Mark the order as available
	availableUow := suite.factory.Create()
	err = availableUow.Begin(ctx)
	suite.Require().NoError(err)

	calculatedOrder, err := availableUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Calculated, calculatedOrder.Status())

	err = calculatedOrder.MarkAsAvailable()
	suite.Require().NoError(err)

	err = availableUow.OrderRepository().Update(ctx, calculatedOrder)
	suite.Require().NoError(err)

	err = availableUow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify final state using a new unit of work
	finalUow := suite.factory.Create()
	finalOrder, err := finalUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Available, finalOrder.Status())
	suite.Equal("BRL 190.00", finalOrder.TotalAmount().String())
	suite.Equal(int64(2), finalOrder.Version())
}

// TestUnitOfWork_StaleAggregateAcrossTransactions verifies the optimistic
// version check rejects writes based on state read before a concurrent update.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StaleAggregateAcrossTransactions() {
	ctx := context.Background()

	// Persist an order
	setupUow := suite.factory.Create()
	testOrder := suite.createReceivedOrder()
	err := setupUow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Two units of work read the same stored version
	uow1 := suite.factory.Create()
	firstCopy, err := uow1.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	uow2 := suite.factory.Create()
	secondCopy, err := uow2.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// First write wins
	err = firstCopy.StartProcessing()
	suite.Require().NoError(err)
	err = uow1.OrderRepository().Update(ctx, firstCopy)
	suite.Require().NoError(err)

	// Second write is stale and must be rejected
	err = secondCopy.MarkAsFailed()
	suite.Require().NoError(err)
	err = uow2.OrderRepository().Update(ctx, secondCopy)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	// Create two unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Create test orders
	order1 := suite.createReceivedOrder()
	order2 := suite.createReceivedOrder()

	// Begin transactions on both
	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	// Add different orders in each transaction
	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	// Commit first transaction
	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	// Rollback second transaction
	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify only order1 persisted
	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder := suite.createReceivedOrder()

	// Add order without beginning transaction (should auto-commit)
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order persists immediately
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	// Verify with new unit of work instance
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_DuplicateRollsBackTransaction verifies that a failed insert
// inside a transaction does not leak the earlier successful writes.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DuplicateRollsBackTransaction() {
	ctx := context.Background()

	// Persist an order outside any explicit transaction
	setupUow := suite.factory.Create()
	existingOrder := suite.createReceivedOrder()
	err := setupUow.OrderRepository().Add(ctx, existingOrder)
	suite.Require().NoError(err)

	// Begin a transaction, add a fresh order, then hit the unique constraint
	uow := suite.factory.Create()
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	freshOrder := suite.createReceivedOrder()
	err = uow.OrderRepository().Add(ctx, freshOrder)
	suite.Require().NoError(err)

	duplicate, err := order.NewOrder(kernel.NewUUID(), existingOrder.ExternalOrderID(),
		[]*order.OrderItem{suite.createOrderItem("PROD-A", "Product A", "50.00", 2)})
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, duplicate)
	suite.Require().Error(err, "Adding duplicate external order ID should fail")
	suite.Require().ErrorIs(err, errs.ErrDuplicateValue)

	// Rollback discards the fresh order alongside the failed insert
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, freshOrder.ID())
	suite.Require().Error(err, "Fresh order should not exist after rollback")

	_, err = newUow.OrderRepository().Get(ctx, existingOrder.ID())
	suite.Require().NoError(err, "Existing order should still exist")
}

// externalOrderSeq produces unique external order IDs across the suite.
var externalOrderSeq atomic.Int64

// createReceivedOrder creates a valid order in Received status with two items.
func (suite *UnitOfWorkIntegrationTestSuite) createReceivedOrder() *order.Order {
	externalOrderID, err := kernel.NewExternalOrderID(
		fmt.Sprintf("EXT-UOW-%d", externalOrderSeq.Add(1)))
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), externalOrderID, []*order.OrderItem{
		suite.createOrderItem("PROD-A", "Product A", "50.00", 2),
		suite.createOrderItem("PROD-B", "Product B", "30.00", 3),
	})
	suite.Require().NoError(err)

	return testOrder
}

// createOrderItem creates a single valid order item.
func (suite *UnitOfWorkIntegrationTestSuite) createOrderItem(
	productID string, productName string, unitPrice string, quantity int,
) *order.OrderItem {
	pid, err := kernel.NewProductID(productID)
	suite.Require().NoError(err)

	price, err := kernel.MoneyFromString(unitPrice, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	item, err := order.NewOrderItem(kernel.NewUUID(), pid, productName, price, quantity)
	suite.Require().NoError(err)
	return item
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
