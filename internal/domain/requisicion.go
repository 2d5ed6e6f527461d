package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requisicion is a scheduled raw-material delivery. Dates are plain
// "YYYY-MM-DD" strings end to end so that audit stringification is exact.
type Requisicion struct {
	ID                     string
	FechaRecepcion         string
	ProveedorID            string
	ProductoID             string
	PresentacionID         string
	DestinoID              string
	EstatusID              string
	CantidadSolicitada     decimal.Decimal
	UnidadCantidadID       string
	NumeroOC               *string
	RequisicionNumero      *string
	FechaOC                *string
	FechaSolicitadaEntrega *string
	FechaConfirmada        *string
	FechaEntregado         *string
	CantidadEntregada      *decimal.Decimal
	FacturaRemision        *string
	Comentarios            *string
	CreatedBy              string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CantidadPendiente is the derived outstanding quantity. It is never stored
// and never negative: over-delivery clamps to zero.
func (r *Requisicion) CantidadPendiente() decimal.Decimal {
	entregada := decimal.Zero
	if r.CantidadEntregada != nil {
		entregada = *r.CantidadEntregada
	}
	pendiente := r.CantidadSolicitada.Sub(entregada)
	if pendiente.IsNegative() {
		return decimal.Zero
	}
	return pendiente
}

// RequisicionInput is a partial mutation payload. A nil field is absent: it is
// neither validated against nor diffed nor applied. Empty string and nil are
// equivalent "no value" for the optional fields.
type RequisicionInput struct {
	FechaRecepcion         *string
	ProveedorID            *string
	ProductoID             *string
	PresentacionID         *string
	DestinoID              *string
	EstatusID              *string
	CantidadSolicitada     *decimal.Decimal
	UnidadCantidadID       *string
	NumeroOC               *string
	RequisicionNumero      *string
	FechaOC                *string
	FechaSolicitadaEntrega *string
	FechaConfirmada        *string
	FechaEntregado         *string
	CantidadEntregada      *decimal.Decimal
	FacturaRemision        *string
	Comentarios            *string
}

// RequisicionFilter narrows listings. Date bounds apply to fecha_recepcion.
type RequisicionFilter struct {
	ProveedorID *string
	DestinoID   *string
	EstatusID   *string
	FechaDesde  *string
	FechaHasta  *string
}

// Apply overlays the provided fields onto a copy of the snapshot and returns
// it. Optional fields set to the empty string are normalized to null.
func (in RequisicionInput) Apply(base Requisicion) Requisicion {
	if in.FechaRecepcion != nil {
		base.FechaRecepcion = *in.FechaRecepcion
	}
	if in.ProveedorID != nil {
		base.ProveedorID = *in.ProveedorID
	}
	if in.ProductoID != nil {
		base.ProductoID = *in.ProductoID
	}
	if in.PresentacionID != nil {
		base.PresentacionID = *in.PresentacionID
	}
	if in.DestinoID != nil {
		base.DestinoID = *in.DestinoID
	}
	if in.EstatusID != nil {
		base.EstatusID = *in.EstatusID
	}
	if in.CantidadSolicitada != nil {
		base.CantidadSolicitada = *in.CantidadSolicitada
	}
	if in.UnidadCantidadID != nil {
		base.UnidadCantidadID = *in.UnidadCantidadID
	}
	if in.NumeroOC != nil {
		base.NumeroOC = normalizeOptional(in.NumeroOC)
	}
	if in.RequisicionNumero != nil {
		base.RequisicionNumero = normalizeOptional(in.RequisicionNumero)
	}
	if in.FechaOC != nil {
		base.FechaOC = normalizeOptional(in.FechaOC)
	}
	if in.FechaSolicitadaEntrega != nil {
		base.FechaSolicitadaEntrega = normalizeOptional(in.FechaSolicitadaEntrega)
	}
	if in.FechaConfirmada != nil {
		base.FechaConfirmada = normalizeOptional(in.FechaConfirmada)
	}
	if in.FechaEntregado != nil {
		base.FechaEntregado = normalizeOptional(in.FechaEntregado)
	}
	if in.CantidadEntregada != nil {
		entregada := *in.CantidadEntregada
		base.CantidadEntregada = &entregada
	}
	if in.FacturaRemision != nil {
		base.FacturaRemision = normalizeOptional(in.FacturaRemision)
	}
	if in.Comentarios != nil {
		base.Comentarios = normalizeOptional(in.Comentarios)
	}
	return base
}

func normalizeOptional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
