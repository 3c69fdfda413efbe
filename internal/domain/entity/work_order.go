package entity

import "time"

// Estados de una orden de trabajo. El kardex no gobierna este ciclo de vida:
// solo exige que la OT exista cuando un OUT_OT la referencia.
const (
	WorkOrderOPEN       = "OPEN"
	WorkOrderINPROGRESS = "IN_PROGRESS"
	WorkOrderDONE       = "DONE"
	WorkOrderCANCELLED  = "CANCELLED"
)

// WorkOrder orden de trabajo (centro de costo al que se cargan salidas OUT_OT).
type WorkOrder struct {
	ID          string
	CompanyID   string
	Code        string
	Responsible string
	CostCenter  string
	Status      string
	Notes       string
	CreatedAt   time.Time
}
