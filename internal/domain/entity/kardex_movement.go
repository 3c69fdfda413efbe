package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementTypeINITIAL  = "INITIAL"  // inventario inicial
	MovementTypeIN       = "IN"       // entrada
	MovementTypeOUTOT    = "OUT_OT"   // salida contra orden de trabajo
	MovementTypeTRANSFER = "TRANSFER" // traslado entre ubicaciones
	MovementTypeADJUST   = "ADJUST"   // ajuste (requiere aprobación)
	MovementTypeSCRAP    = "SCRAP"    // merma (requiere aprobación)
)

// Estados de un movimiento. APPROVED y REJECTED son terminales.
const (
	StatusPENDING  = "PENDING"
	StatusAPPROVED = "APPROVED"
	StatusREJECTED = "REJECTED"
)

// Roles de usuario reconocidos por el dominio.
const (
	RoleBODEGUERO  = "BODEGUERO"
	RoleSUPERVISOR = "SUPERVISOR"
	RoleADMIN      = "ADMIN"
	RoleSUPERADMIN = "SUPERADMIN"
)

// Dirección de un ajuste (ADJUST).
const (
	AdjustINCREMENT = "INCREMENT"
	AdjustDECREMENT = "DECREMENT"
)

// ValidMovementType valida el tipo contra el conjunto cerrado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeINITIAL, MovementTypeIN, MovementTypeOUTOT,
		MovementTypeTRANSFER, MovementTypeADJUST, MovementTypeSCRAP:
		return true
	}
	return false
}

// ValidStatus valida el estado contra el conjunto cerrado.
func ValidStatus(s string) bool {
	return s == StatusPENDING || s == StatusAPPROVED || s == StatusREJECTED
}

// ValidRole valida el rol contra el conjunto cerrado.
func ValidRole(r string) bool {
	switch r {
	case RoleBODEGUERO, RoleSUPERVISOR, RoleADMIN, RoleSUPERADMIN:
		return true
	}
	return false
}

// MovementLine línea de un movimiento: delta de cantidad sobre una clave
// (ubicación, item, lote). LotID vacío = sin lote. Las líneas se fijan al
// crear el movimiento y nunca se alteran.
type MovementLine struct {
	LocationID string
	ItemID     string
	LotID      string
	DeltaQty   decimal.Decimal
}

// KardexMovement asiento del libro de movimientos (append-only). La cabecera
// es inmutable salvo Status/ApprovedBy/ApprovedByRole, que mutan exactamente
// una vez al decidir un movimiento PENDING. Nunca se elimina (auditoría).
type KardexMovement struct {
	ID              string
	CompanyID       string
	MovementType    string
	Status          string
	Reason          string
	Notes           string
	RequestedBy     string
	RequestedByRole string
	ApprovedBy      string
	ApprovedByRole  string
	WorkOrderID     string
	CreatedAt       time.Time
	Lines           []MovementLine
}
