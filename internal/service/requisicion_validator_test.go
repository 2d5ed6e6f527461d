package service

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

func validCreateInput() domain.RequisicionInput {
	return domain.RequisicionInput{
		FechaRecepcion:     strPtr("2026-03-10"),
		ProveedorID:        strPtr("prov-1"),
		ProductoID:         strPtr("prod-1"),
		PresentacionID:     strPtr("pres-1"),
		DestinoID:          strPtr("dest-1"),
		EstatusID:          strPtr("est-1"),
		CantidadSolicitada: decPtr("100"),
		UnidadCantidadID:   strPtr("uni-1"),
	}
}

func editorCaps() domain.CapabilitySet {
	return domain.RolCoordinadora.Capabilities()
}

func TestValidateCreateAllRequiredFieldsMissing(t *testing.T) {
	errs := ValidateRequisicion(domain.RequisicionInput{}, ModeCreate, editorCaps(), nil)

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"fecha_recepcion", "proveedor_id", "producto_id", "presentacion_id",
		"destino_id", "estatus_id", "unidad_cantidad_id", "cantidad_solicitada",
	}, fields, "every violated rule is reported, not just the first")
}

func TestValidateCreateValidInput(t *testing.T) {
	errs := ValidateRequisicion(validCreateInput(), ModeCreate, editorCaps(), nil)
	assert.Empty(t, errs)
}

func TestValidateCreateEmptyStringCountsAsMissing(t *testing.T) {
	input := validCreateInput()
	input.ProveedorID = strPtr("")

	errs := ValidateRequisicion(input, ModeCreate, editorCaps(), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "proveedor_id", errs[0].Field)
	assert.Equal(t, "Selecciona un proveedor", errs[0].Message)
}

func TestValidateQuantities(t *testing.T) {
	input := validCreateInput()
	input.CantidadSolicitada = decPtr("0")

	errs := ValidateRequisicion(input, ModeCreate, editorCaps(), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "cantidad_solicitada", errs[0].Field)
	assert.Equal(t, "Debe ser mayor a 0", errs[0].Message)

	input.CantidadSolicitada = decPtr("10")
	input.CantidadEntregada = decPtr("-1")
	errs = ValidateRequisicion(input, ModeCreate, editorCaps(), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "cantidad_entregada", errs[0].Field)

	// over-delivery is allowed; cantidad pendiente clamps at zero instead
	input.CantidadEntregada = decPtr("999")
	errs = ValidateRequisicion(input, ModeCreate, editorCaps(), nil)
	assert.Empty(t, errs)
}

func TestValidateUpdateOmittedFieldsAreFine(t *testing.T) {
	old := validCreateInput().Apply(domain.Requisicion{})

	errs := ValidateRequisicion(domain.RequisicionInput{Comentarios: strPtr("ok")}, ModeUpdate, editorCaps(), &old)
	assert.Empty(t, errs)
}

func TestValidateUpdateCannotBlankRequiredField(t *testing.T) {
	old := validCreateInput().Apply(domain.Requisicion{})

	errs := ValidateRequisicion(domain.RequisicionInput{EstatusID: strPtr("")}, ModeUpdate, editorCaps(), &old)
	require.Len(t, errs, 1)
	assert.Equal(t, "estatus_id", errs[0].Field)
}

func TestValidateConfirmedDateGate(t *testing.T) {
	old := validCreateInput().Apply(domain.Requisicion{})
	restricted := domain.CapabilitySet{CanEdit: true}

	// changing the confirmed date without the capability is rejected
	errs := ValidateRequisicion(domain.RequisicionInput{FechaConfirmada: strPtr("2026-03-20")}, ModeUpdate, restricted, &old)
	require.Len(t, errs, 1)
	assert.Equal(t, "fecha_confirmada", errs[0].Field)

	// round-tripping the stored empty value is not a violation
	errs = ValidateRequisicion(domain.RequisicionInput{FechaConfirmada: strPtr("")}, ModeUpdate, restricted, &old)
	assert.Empty(t, errs)

	// with the capability the change goes through
	errs = ValidateRequisicion(domain.RequisicionInput{FechaConfirmada: strPtr("2026-03-20")}, ModeUpdate, editorCaps(), &old)
	assert.Empty(t, errs)
}

func TestValidateConfirmedDateGateWithStoredValue(t *testing.T) {
	old := validCreateInput().Apply(domain.Requisicion{})
	old.FechaConfirmada = strPtr("2026-03-15")
	restricted := domain.CapabilitySet{CanEdit: true}

	// resubmitting the same value is fine
	errs := ValidateRequisicion(domain.RequisicionInput{FechaConfirmada: strPtr("2026-03-15")}, ModeUpdate, restricted, &old)
	assert.Empty(t, errs)

	// clearing it is a change and gets blocked
	errs = ValidateRequisicion(domain.RequisicionInput{FechaConfirmada: strPtr("")}, ModeUpdate, restricted, &old)
	require.Len(t, errs, 1)
	assert.Equal(t, "fecha_confirmada", errs[0].Field)
}
