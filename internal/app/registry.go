package app

import (
	"context"
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/auth"
	"github.com/junicoVilela/people-flow-api-sub000/internal/company"
	"github.com/junicoVilela/people-flow-api-sub000/internal/costcenter"
	"github.com/junicoVilela/people-flow-api-sub000/internal/department"
	"github.com/junicoVilela/people-flow-api-sub000/internal/employee"
	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity/keycloak"
	"github.com/junicoVilela/people-flow-api-sub000/internal/jobrole"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka/producer"
	"github.com/junicoVilela/people-flow-api-sub000/internal/middleware"
	"github.com/junicoVilela/people-flow-api-sub000/internal/orgmapping"
	"github.com/junicoVilela/people-flow-api-sub000/internal/provisioning"
	"github.com/junicoVilela/people-flow-api-sub000/internal/rbac"
	"github.com/junicoVilela/people-flow-api-sub000/internal/rbac/infra"
	"github.com/junicoVilela/people-flow-api-sub000/internal/rbac/rbac_http"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	bus *eventbus.Bus,
	kafkaWriter *kafkago.Writer,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	costCenterRepo := costcenter.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	jobRoleRepo := jobrole.NewRepository(gormDB)
	orgMappingRepo := orgmapping.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	companyService := company.NewService(db, companyRepo)
	costCenterService := costcenter.NewService(db, costCenterRepo)
	departmentService := department.NewService(db, departmentRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, bus, rdb, logger)
	jobRoleService := jobrole.NewService(db, jobRoleRepo)

	// --- Identity provider gateway ---
	gateway := keycloak.NewClient(keycloak.Config{
		BaseURL:      os.Getenv("KEYCLOAK_BASE_URL"),
		Realm:        os.Getenv("KEYCLOAK_REALM"),
		ClientID:     os.Getenv("KEYCLOAK_CLIENT_ID"),
		ClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
	}, logger)
	credentials := identity.NewCredentialCache(gateway, rdb, logger)
	gateway.UseTokenProvider(credentials)

	// --- Provisioning listeners ---
	assigner := provisioning.NewAutoAssigner(gateway, orgMappingRepo, orgMappingRepo, logger)
	provisioner := provisioning.NewProvisioner(gateway, assigner, bus, logger)
	lifecycleSyncer := provisioning.NewLifecycleSyncer(gateway, logger)
	reverseLinker := provisioning.NewReverseLinker(employeeService, logger)

	bus.SubscribeAsync(events.KindEmployeeCreated, provisioner.HandleEmployeeCreated)

	for _, kind := range []events.Kind{
		events.KindEmployeeActivated,
		events.KindEmployeeDeactivated,
		events.KindEmployeeTerminated,
		events.KindEmployeeDeleted,
		events.KindEmployeeReactivated,
	} {
		bus.SubscribeAsync(kind, lifecycleSyncer.HandleLifecycleEvent)
	}

	// The reverse link runs synchronously so the employee row carries the
	// identity id before the dispatching request returns.
	bus.Subscribe(events.KindIdentityLinked, reverseLinker.HandleIdentityLinked)

	// Link confirmations have no outbox row of their own; mirror them to
	// Kafka directly so other systems see the same fact.
	if kafkaWriter != nil {
		publisher := producer.NewPublisher(kafkaWriter, logger)
		bus.Subscribe(events.KindIdentityLinked, func(ctx context.Context, evt events.Event) {
			_ = publisher.PublishDomainEvent(ctx, events.IdentityLinkedTopic, evt)
		})
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService, logger)
	costCenterHandler := costcenter.NewHandler(costCenterService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	jobRoleHandler := jobrole.NewHandler(jobRoleService, logger)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo, logger)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		auth.RegisterRoutes(api, authHandler)
		company.RegisterRoutes(api, companyHandler, rbacService)
		costcenter.RegisterRoutes(api, costCenterHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		jobrole.RegisterRoutes(api, jobRoleHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
