package kardex

import (
	"strings"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// Tipo de entidad referenciada por un código QR.
type QRKind string

const (
	QRItem QRKind = "ITEM"
	QRLot  QRKind = "LOT"
)

// QRRef referencia tipada resuelta desde un QR escaneado.
// Para QRItem se llena ItemID; para QRLot se llena LotID (el item dueño
// lo completa la capa de aplicación consultando el lote).
type QRRef struct {
	Kind      QRKind
	CompanyID string
	ItemID    string
	LotID     string
}

// ResolveQR decodifica un QR con formato PREFIX:COMPANY_ID:ENTITY_ID
// (exactamente tres segmentos separados por ':'). El prefijo debe ser
// ITEM o LOT; cualquier otra forma o segmento vacío es ErrMalformedQR.
// Un QR de otra empresa nunca se resuelve en silencio: ErrCrossTenantQR.
func ResolveQR(code, companyID string) (QRRef, error) {
	parts := strings.Split(code, ":")
	if len(parts) != 3 {
		return QRRef{}, domain.ErrMalformedQR
	}

	prefix := strings.ToUpper(strings.TrimSpace(parts[0]))
	company := strings.TrimSpace(parts[1])
	entityID := strings.TrimSpace(parts[2])

	if company == "" || entityID == "" {
		return QRRef{}, domain.ErrMalformedQR
	}
	if prefix != string(QRItem) && prefix != string(QRLot) {
		return QRRef{}, domain.ErrMalformedQR
	}
	if company != companyID {
		return QRRef{}, domain.ErrCrossTenantQR
	}

	ref := QRRef{Kind: QRKind(prefix), CompanyID: company}
	if ref.Kind == QRItem {
		ref.ItemID = entityID
	} else {
		ref.LotID = entityID
	}
	return ref, nil
}
