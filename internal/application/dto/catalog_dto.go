package dto

import "time"

// ItemDTO item de catálogo.
type ItemDTO struct {
	ID        string `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	BaseUnit  string `json:"base_unit"`
	Category  string `json:"category"`
	HasExpiry bool   `json:"has_expiry"`
	ByLot     bool   `json:"by_lot"`
	QRCode    string `json:"qr_code"`
}

// LotDTO lote con su vencimiento.
type LotDTO struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	LotCode   string    `json:"lot_code"`
	QRCode    string    `json:"qr_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LocationDTO ubicación de bodega.
type LocationDTO struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Zone string `json:"zone,omitempty"`
}

// CreateWorkOrderRequest body para POST /api/work-orders.
type CreateWorkOrderRequest struct {
	Responsible string `json:"responsible"`
	CostCenter  string `json:"cost_center"`
	Notes       string `json:"notes,omitempty"`
}

// WorkOrderDTO orden de trabajo.
type WorkOrderDTO struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Responsible string    `json:"responsible"`
	CostCenter  string    `json:"cost_center"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
