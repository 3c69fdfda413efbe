package kardex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

const testCompany = "COMP-1"

// Caso feliz: QR de item dentro de la empresa del operador.
func TestResolveQR_ItemValido(t *testing.T) {
	ref, err := kardex.ResolveQR("ITEM:COMP-1:ITEM-42", testCompany)
	require.NoError(t, err)

	assert.Equal(t, kardex.QRItem, ref.Kind)
	assert.Equal(t, "COMP-1", ref.CompanyID)
	assert.Equal(t, "ITEM-42", ref.ItemID)
	assert.Empty(t, ref.LotID, "un QR de item no lleva lote")
}

// Caso feliz: QR de lote. El prefijo es insensible a mayúsculas.
func TestResolveQR_LotePrefijoMinusculas(t *testing.T) {
	ref, err := kardex.ResolveQR("lot:COMP-1:LOTE-7", testCompany)
	require.NoError(t, err)

	assert.Equal(t, kardex.QRLot, ref.Kind)
	assert.Equal(t, "LOTE-7", ref.LotID)
	assert.Empty(t, ref.ItemID)
}

// QRs malformados: segmentos de más o de menos, prefijo desconocido,
// segmentos vacíos.
func TestResolveQR_Malformados(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"sin separadores", "ITEMCOMP1ITEM42"},
		{"dos segmentos", "ITEM:COMP-1"},
		{"cuatro segmentos", "ITEM:COMP-1:ITEM-42:EXTRA"},
		{"prefijo desconocido", "BOX:COMP-1:ITEM-42"},
		{"empresa vacia", "ITEM::ITEM-42"},
		{"entidad vacia", "ITEM:COMP-1:"},
		{"cadena vacia", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := kardex.ResolveQR(tc.code, testCompany)
			assert.ErrorIs(t, err, domain.ErrMalformedQR)
		})
	}
}

// Un QR bien formado de otra empresa jamás se resuelve en silencio.
func TestResolveQR_OtraEmpresa(t *testing.T) {
	_, err := kardex.ResolveQR("ITEM:COMP-2:ITEM-42", testCompany)
	assert.ErrorIs(t, err, domain.ErrCrossTenantQR)
}

// La forma se valida antes que la pertenencia: un QR malformado de otra
// empresa reporta malformación, no cruce de empresa.
func TestResolveQR_MalformadoAntesQueCrossTenant(t *testing.T) {
	_, err := kardex.ResolveQR("BOX:COMP-2:ITEM-42", testCompany)
	assert.ErrorIs(t, err, domain.ErrMalformedQR)
}
