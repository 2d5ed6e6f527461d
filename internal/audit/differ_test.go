package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func baseRequisicion() *domain.Requisicion {
	return &domain.Requisicion{
		ID:                 "req-1",
		FechaRecepcion:     "2026-03-10",
		ProveedorID:        "prov-1",
		ProductoID:         "prod-1",
		PresentacionID:     "pres-1",
		DestinoID:          "dest-1",
		EstatusID:          "est-1",
		CantidadSolicitada: decimal.RequireFromString("100"),
		UnidadCantidadID:   "uni-1",
	}
}

func TestDiffSkipsAbsentFields(t *testing.T) {
	old := baseRequisicion()

	cambios := Diff(old, domain.RequisicionInput{})
	assert.Empty(t, cambios, "an empty partial payload changes nothing")
}

func TestDiffSingleFieldChange(t *testing.T) {
	old := baseRequisicion()
	old.NumeroOC = strPtr("OC-1")

	cambios := Diff(old, domain.RequisicionInput{NumeroOC: strPtr("OC-2")})

	require.Len(t, cambios, 1)
	assert.Equal(t, "Número O.C.", cambios[0].Campo)
	assert.Equal(t, "OC-1", cambios[0].Anterior)
	assert.Equal(t, "OC-2", cambios[0].Nuevo)
}

func TestDiffNullAndEmptyAreEquivalent(t *testing.T) {
	old := baseRequisicion()
	// NumeroOC is nil in the snapshot; the form round-trips it as ""
	cambios := Diff(old, domain.RequisicionInput{NumeroOC: strPtr("")})
	assert.Empty(t, cambios)

	// and a stored empty-equivalent still diffs against a real value
	cambios = Diff(old, domain.RequisicionInput{NumeroOC: strPtr("OC-9")})
	require.Len(t, cambios, 1)
	assert.Equal(t, "", cambios[0].Anterior)
	assert.Equal(t, "OC-9", cambios[0].Nuevo)
}

func TestDiffUnchangedValueEmitsNothing(t *testing.T) {
	old := baseRequisicion()

	cambios := Diff(old, domain.RequisicionInput{
		FechaRecepcion:     strPtr("2026-03-10"),
		CantidadSolicitada: decPtr("100"),
	})
	assert.Empty(t, cambios)
}

func TestDiffDecimalStringification(t *testing.T) {
	old := baseRequisicion()
	cambios := Diff(old, domain.RequisicionInput{CantidadSolicitada: decPtr("150.5")})

	require.Len(t, cambios, 1)
	assert.Equal(t, "Cantidad Solicitada", cambios[0].Campo)
	assert.Equal(t, "100", cambios[0].Anterior)
	assert.Equal(t, "150.5", cambios[0].Nuevo)
}

func TestDiffOrderIsDeclaredFieldOrder(t *testing.T) {
	old := baseRequisicion()

	input := domain.RequisicionInput{
		Comentarios:    strPtr("urgente"),
		FechaRecepcion: strPtr("2026-03-11"),
		EstatusID:      strPtr("est-2"),
	}

	// run it a few times; the order never depends on map iteration
	for i := 0; i < 5; i++ {
		cambios := Diff(old, input)
		require.Len(t, cambios, 3)
		assert.Equal(t, "Fecha de Recepción", cambios[0].Campo)
		assert.Equal(t, "Estatus", cambios[1].Campo)
		assert.Equal(t, "Comentarios", cambios[2].Campo)
	}
}

func TestDiffClearingOptionalField(t *testing.T) {
	old := baseRequisicion()
	old.FechaConfirmada = strPtr("2026-03-15")

	cambios := Diff(old, domain.RequisicionInput{FechaConfirmada: strPtr("")})

	require.Len(t, cambios, 1)
	assert.Equal(t, "Fecha Confirmada", cambios[0].Campo)
	assert.Equal(t, "2026-03-15", cambios[0].Anterior)
	assert.Equal(t, "", cambios[0].Nuevo)
}

func TestLabelFallback(t *testing.T) {
	assert.Equal(t, "Proveedor", Label("proveedor_id"))
	assert.Equal(t, "campo_raro", Label("campo_raro"))
}
