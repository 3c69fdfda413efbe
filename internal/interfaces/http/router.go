package http

import (
	"github.com/gofiber/fiber/v2"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SubmitMovement *appkardex.SubmitMovementUseCase
	DecideMovement *appkardex.DecideMovementUseCase
	CycleCount     *appkardex.CycleCountUseCase
	Reconcile      *appkardex.ReconcileUseCase
	Query          *appkardex.QueryUseCase
	Report         *appkardex.ReportUseCase
	CatalogUC      *usecase.CatalogUseCase
	WorkOrderUC    *usecase.WorkOrderUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todo exige Bearer Token; las decisiones
// de aprobación exigen además rol SUPERVISOR o superior, y la conciliación
// queda reservada a ADMIN/SUPERADMIN.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Kardex (protegido)
	kardexHandler := NewKardexHandler(
		deps.SubmitMovement, deps.DecideMovement, deps.CycleCount,
		deps.Reconcile, deps.Query, deps.Report,
	)
	kardexGroup := api.Group("/kardex")
	kardexGroup.Post("/movements", kardexHandler.SubmitMovement)
	kardexGroup.Get("/movements", kardexHandler.ListMovements)
	kardexGroup.Post("/movements/:id/decision",
		RequireRole(entity.RoleSUPERVISOR, entity.RoleADMIN, entity.RoleSUPERADMIN),
		kardexHandler.DecideMovement)
	kardexGroup.Get("/pending-approvals", kardexHandler.ListPendingApprovals)
	kardexGroup.Post("/cycle-counts", kardexHandler.SubmitCycleCount)
	kardexGroup.Get("/stock", kardexHandler.GetStock)
	kardexGroup.Get("/reconcile",
		RequireRole(entity.RoleADMIN, entity.RoleSUPERADMIN),
		kardexHandler.Reconcile)
	kardexGroup.Get("/report.pdf", kardexHandler.KardexReportPDF)

	// Catálogo (protegido, solo lectura)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalog := api.Group("/catalog")
	catalog.Get("/items", catalogHandler.ListItems)
	catalog.Get("/items/:id/lots", catalogHandler.ListLotsByItem)
	catalog.Get("/lots/expiring", catalogHandler.ListExpiringLots)
	catalog.Get("/locations", catalogHandler.ListLocations)

	// Órdenes de trabajo (protegido)
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	workOrders := api.Group("/work-orders")
	workOrders.Post("/", workOrderHandler.Create)
	workOrders.Get("/", workOrderHandler.List)
}
