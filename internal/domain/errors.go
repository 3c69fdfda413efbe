package domain

import "errors"

// Errores de dominio (sin dependencias externas). Ningún error se recupera
// en silencio dentro del núcleo: toda falla aborta la operación completa sin
// asiento parcial ni mutación de saldos.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrMovementNotFound = errors.New("movimiento no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidQuantity  = errors.New("cantidad inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")

	// Resolución de códigos QR.
	ErrMalformedQR   = errors.New("código QR malformado")
	ErrCrossTenantQR = errors.New("el código QR pertenece a otra empresa")

	// Reglas de negocio de movimientos.
	ErrReasonRequired        = errors.New("motivo obligatorio para este movimiento")
	ErrWorkOrderRequired     = errors.New("OUT_OT requiere una orden de trabajo asociada")
	ErrLotRequired           = errors.New("el item requiere lote: escanee QR LOT o seleccione lote")
	ErrNotPending            = errors.New("solo movimientos PENDING pueden cambiar de estado")
	ErrInvalidTargetStatus   = errors.New("el nuevo estado debe ser APPROVED o REJECTED")
	ErrApproverNotAuthorized = errors.New("solo Supervisor/Admin/SuperAdmin pueden aprobar o rechazar")

	// Suficiencia de stock.
	ErrInsufficientStock              = errors.New("stock insuficiente")
	ErrInsufficientNonExpiredStock    = errors.New("stock no vencido insuficiente para la cantidad solicitada")
	ErrExpiredLotConfirmationRequired = errors.New("se requieren lotes vencidos: confirme el uso de lote vencido")
	ErrReasonRequiredForExpiredUse    = errors.New("motivo obligatorio al usar lotes vencidos")
)
