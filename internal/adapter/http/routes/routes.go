package routes

import (
	"context"
	"log"

	_ "restaurant_payments/docs" // generated by swag init
	"restaurant_payments/internal/adapter/http/handlers"
	"restaurant_payments/internal/adapter/persistence/memory"
	"restaurant_payments/internal/adapter/persistence/postgres"
	"restaurant_payments/internal/adapter/persistence/repository"
	"restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/infrastructure/payments"
	"restaurant_payments/internal/usecase"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	log.Printf("[app] listening port=%s storage=%s gateway_verify=%t", cfg.Port, cfg.StorageDriver, cfg.GatewayVerify)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

// storage groups the three persistence ports; every driver implements all
// of them against the same backing store.
type storage struct {
	orders   interfaces.IOrderRepository
	payments interfaces.IPaymentRepository
	ledger   interfaces.IReconciliationStore
}

func openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURI)
		if err != nil {
			return storage{}, err
		}
		s := postgres.NewStore(pool, cfg.LockTimeout)
		return storage{orders: s, payments: s, ledger: s}, nil

	case config.StorageMemory:
		log.Printf("[app] using in-memory storage, data is lost on restart")
		s := memory.NewStore(cfg.LockTimeout)
		return storage{orders: s, payments: s, ledger: s}, nil

	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return storage{}, err
		}
		if cfg.DynamoDBCreateTables {
			err = database.EnsureTables(ctx, ddb,
				database.TableSpec{Name: cfg.OrdersTable, HashKey: "id"},
				database.TableSpec{Name: cfg.PaymentsTable, HashKey: "order_id", SortKey: "id"},
				database.TableSpec{Name: cfg.OrderLocksTable, HashKey: "order_id"},
			)
			if err != nil {
				return storage{}, err
			}
		}
		tables := repository.DynamoTables{
			Orders:     cfg.OrdersTable,
			Payments:   cfg.PaymentsTable,
			OrderLocks: cfg.OrderLocksTable,
		}
		return storage{
			orders:   repository.NewOrderDynamoRepository(ddb, tables.Orders),
			payments: repository.NewPaymentDynamoRepository(ddb, tables.Payments),
			ledger:   repository.NewReconciliationDynamoStore(ddb, tables, cfg.LockTimeout, cfg.LockLease),
		}, nil
	}
}

func getRoutes(cfg config.Config) {
	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}

	var paymentGateway interfaces.IPaymentGateway
	if cfg.GatewayVerify {
		mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Fatalf("Mercado Pago gateway not configured: %v", err)
		}
		paymentGateway = mpGateway
	}

	orderUseCase := usecase.NewOrderUseCase(store.orders, store.ledger)
	reconciliationUseCase := usecase.NewReconciliationUseCase(store.ledger, store.orders, store.payments, paymentGateway)

	orderHandler := handlers.NewOrderHandler(orderUseCase)
	paymentHandler := handlers.NewPaymentHandler(reconciliationUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addOrderRoutes(v1, orderHandler, paymentHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
