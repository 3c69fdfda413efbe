package kardex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

func validIn() kardex.ValidationInput {
	return kardex.ValidationInput{
		MovementType:    entity.MovementTypeIN,
		Status:          entity.StatusAPPROVED,
		RequestedByRole: entity.RoleBODEGUERO,
	}
}

// Una entrada normal de bodeguero pasa sin advertencias.
func TestValidateMovement_EntradaValida(t *testing.T) {
	result, err := kardex.ValidateMovement(validIn())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

// Enumeraciones desconocidas se rechazan de plano.
func TestValidateMovement_EnumsInvalidos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*kardex.ValidationInput)
	}{
		{"tipo desconocido", func(in *kardex.ValidationInput) { in.MovementType = "SALIDA" }},
		{"estado desconocido", func(in *kardex.ValidationInput) { in.Status = "DRAFT" }},
		{"rol desconocido", func(in *kardex.ValidationInput) { in.RequestedByRole = "GERENTE" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validIn()
			tc.mutate(&in)
			_, err := kardex.ValidateMovement(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// Tipos y estados se normalizan: minúsculas y espacios no invalidan.
func TestValidateMovement_NormalizaMayusculas(t *testing.T) {
	in := validIn()
	in.MovementType = " in "
	in.Status = "approved"
	in.RequestedByRole = "bodeguero"
	_, err := kardex.ValidateMovement(in)
	assert.NoError(t, err)
}

// ADJUST y SCRAP exigen motivo no vacío.
func TestValidateMovement_AjusteSinMotivo(t *testing.T) {
	for _, movementType := range []string{entity.MovementTypeADJUST, entity.MovementTypeSCRAP} {
		in := validIn()
		in.MovementType = movementType
		in.Status = entity.StatusPENDING
		in.Reason = "   "
		_, err := kardex.ValidateMovement(in)
		assert.ErrorIs(t, err, domain.ErrReasonRequired, movementType)
	}
}

// ADJUST y SCRAP nunca nacen auto-aprobados: solo PENDING es válido.
func TestValidateMovement_AjusteNaceAprobado(t *testing.T) {
	in := validIn()
	in.MovementType = entity.MovementTypeSCRAP
	in.Status = entity.StatusAPPROVED
	in.Reason = "Merma por daño"
	_, err := kardex.ValidateMovement(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// OUT_OT sin orden de trabajo asociada se rechaza.
func TestValidateMovement_SalidaSinOT(t *testing.T) {
	in := validIn()
	in.MovementType = entity.MovementTypeOUTOT
	in.HasWorkOrder = false
	_, err := kardex.ValidateMovement(in)
	assert.ErrorIs(t, err, domain.ErrWorkOrderRequired)

	in.HasWorkOrder = true
	_, err = kardex.ValidateMovement(in)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de aprobación
// ──────────────────────────────────────────────────────────────────────────────

func decisionIn(current, next, approverRole string) kardex.ValidationInput {
	return kardex.ValidationInput{
		MovementType:    entity.MovementTypeADJUST,
		Status:          entity.StatusPENDING,
		Reason:          "Conteo físico",
		RequestedByRole: entity.RoleBODEGUERO,
		ApproverRole:    approverRole,
		CurrentStatus:   current,
		NewStatus:       next,
	}
}

// Solo un movimiento PENDING admite decisión.
func TestValidateMovement_DecisionSobreNoPendiente(t *testing.T) {
	for _, current := range []string{entity.StatusAPPROVED, entity.StatusREJECTED} {
		_, err := kardex.ValidateMovement(decisionIn(current, entity.StatusAPPROVED, entity.RoleADMIN))
		assert.ErrorIs(t, err, domain.ErrNotPending, current)
	}
}

// El destino solo puede ser APPROVED o REJECTED.
func TestValidateMovement_DestinoInvalido(t *testing.T) {
	_, err := kardex.ValidateMovement(decisionIn(entity.StatusPENDING, entity.StatusPENDING, entity.RoleADMIN))
	assert.ErrorIs(t, err, domain.ErrInvalidTargetStatus)
}

// Un bodeguero no aprueba ni rechaza.
func TestValidateMovement_AprobadorSinRango(t *testing.T) {
	_, err := kardex.ValidateMovement(decisionIn(entity.StatusPENDING, entity.StatusAPPROVED, entity.RoleBODEGUERO))
	assert.ErrorIs(t, err, domain.ErrApproverNotAuthorized)
}

// Supervisor, admin y superadmin sí deciden.
func TestValidateMovement_AprobadoresAutorizados(t *testing.T) {
	for _, role := range []string{entity.RoleSUPERVISOR, entity.RoleADMIN, entity.RoleSUPERADMIN} {
		_, err := kardex.ValidateMovement(decisionIn(entity.StatusPENDING, entity.StatusREJECTED, role))
		assert.NoError(t, err, role)
	}
}

// Supervisor aprobando SCRAP: pasa, pero con advertencia de política.
func TestValidateMovement_SupervisorApruebaScrapConAdvertencia(t *testing.T) {
	in := decisionIn(entity.StatusPENDING, entity.StatusAPPROVED, entity.RoleSUPERVISOR)
	in.MovementType = entity.MovementTypeSCRAP

	result, err := kardex.ValidateMovement(in)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Supervisor aprobando SCRAP")

	// Admin aprobando lo mismo no genera advertencia.
	in.ApproverRole = entity.RoleADMIN
	result, err = kardex.ValidateMovement(in)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}
