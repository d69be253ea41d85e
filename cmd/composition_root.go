package cmd

import (
	"log/slog"
	"os"

	inhttp "orders/internal/adapters/in/http"
	inkafka "orders/internal/adapters/in/kafka"
	outkafka "orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/postgres"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var publisher ports.EventPublisher
	if configs.KafkaHost != "" && configs.KafkaOrderChangedTopic != "" {
		producer, err := outkafka.NewProducer(
			[]string{configs.KafkaHost}, configs.KafkaOrderChangedTopic, logger)
		if err != nil {
			log.Fatalf("cannot create kafka producer: %v", err)
		}
		publisher = producer
	}

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		logger:     logger,
	}
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() commands.ProcessOrderCommandHandler {
	return commands.NewProcessOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderAvailableCommandHandler() commands.MarkOrderAvailableCommandHandler {
	return commands.NewMarkOrderAvailableCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderFailedCommandHandler() commands.MarkOrderFailedCommandHandler {
	return commands.NewMarkOrderFailedCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderByIDQueryHandler() queries.GetOrderByIDQueryHandler {
	return queries.NewGetOrderByIDQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderByExternalIDQueryHandler() queries.GetOrderByExternalIDQueryHandler {
	return queries.NewGetOrderByExternalIDQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *inhttp.Server {
	return inhttp.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateProcessOrderCommandHandler(),
		c.CreateMarkOrderAvailableCommandHandler(),
		c.CreateMarkOrderFailedCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrderByIDQueryHandler(),
		c.CreateGetOrderByExternalIDQueryHandler(),
		c.CreateGetOrdersByStatusQueryHandler(),
		c.CreateGetAllOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.orderUoWFactory(),
		c.CreateProcessOrderCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateKafkaConsumer() (*inkafka.Consumer, error) {
	return inkafka.NewConsumer(
		[]string{c.configs.KafkaHost},
		c.configs.KafkaConsumerGroup,
		c.configs.KafkaOrderCreatedTopic,
		c.CreateCreateOrderCommandHandler(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
