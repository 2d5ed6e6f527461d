package service

import (
	"github.com/spec-kit/requisicion-service/internal/domain"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// ValidationMode distinguishes create from partial update validation.
type ValidationMode int

const (
	ModeCreate ValidationMode = iota
	ModeUpdate
)

// ValidateRequisicion enforces the lifecycle field rules and the role gate on
// fecha_confirmada. Every violated rule is returned, not just the first.
// Checking catalog references against the database is the gateway's job.
//
// The fecha_confirmada gate runs server-side on purpose: disabling the form
// input alone would leave the restriction bypassable.
func ValidateRequisicion(input domain.RequisicionInput, mode ValidationMode, caps domain.CapabilitySet, old *domain.Requisicion) []apperrors.FieldError {
	var errs []apperrors.FieldError
	add := func(field, message string) {
		errs = append(errs, apperrors.FieldError{Field: field, Message: message})
	}

	required := []struct {
		field   string
		value   *string
		message string
	}{
		{"fecha_recepcion", input.FechaRecepcion, "La fecha es requerida"},
		{"proveedor_id", input.ProveedorID, "Selecciona un proveedor"},
		{"producto_id", input.ProductoID, "Selecciona un producto"},
		{"presentacion_id", input.PresentacionID, "Selecciona una presentación"},
		{"destino_id", input.DestinoID, "Selecciona un destino"},
		{"estatus_id", input.EstatusID, "Selecciona un estatus"},
		{"unidad_cantidad_id", input.UnidadCantidadID, "Selecciona una unidad"},
	}
	for _, rule := range required {
		switch mode {
		case ModeCreate:
			if rule.value == nil || *rule.value == "" {
				add(rule.field, rule.message)
			}
		case ModeUpdate:
			// required fields may be omitted in a partial update but never blanked
			if rule.value != nil && *rule.value == "" {
				add(rule.field, rule.message)
			}
		}
	}

	if mode == ModeCreate && input.CantidadSolicitada == nil {
		add("cantidad_solicitada", "Debe ser un número")
	}
	if input.CantidadSolicitada != nil && !input.CantidadSolicitada.IsPositive() {
		add("cantidad_solicitada", "Debe ser mayor a 0")
	}
	if input.CantidadEntregada != nil && input.CantidadEntregada.IsNegative() {
		add("cantidad_entregada", "No puede ser negativa")
	}

	if mode == ModeUpdate && !caps.CanEditConfirmedDate && confirmedDateChanged(input, old) {
		add("fecha_confirmada", "No tienes permisos para modificar la fecha confirmada")
	}

	return errs
}

// confirmedDateChanged applies the same null/"" equivalence the differ uses,
// so merely round-tripping an empty confirmed date is not a violation.
func confirmedDateChanged(input domain.RequisicionInput, old *domain.Requisicion) bool {
	if input.FechaConfirmada == nil {
		return false
	}
	anterior := ""
	if old != nil && old.FechaConfirmada != nil {
		anterior = *old.FechaConfirmada
	}
	return *input.FechaConfirmada != anterior
}
