package dto

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// RequisicionRequest is a partial mutation payload. Absent JSON keys stay nil
// and are neither validated nor applied, which is what makes PATCH-style
// updates work.
type RequisicionRequest struct {
	FechaRecepcion         *string  `json:"fecha_recepcion"`
	ProveedorID            *string  `json:"proveedor_id"`
	ProductoID             *string  `json:"producto_id"`
	PresentacionID         *string  `json:"presentacion_id"`
	DestinoID              *string  `json:"destino_id"`
	EstatusID              *string  `json:"estatus_id"`
	CantidadSolicitada     *float64 `json:"cantidad_solicitada"`
	UnidadCantidadID       *string  `json:"unidad_cantidad_id"`
	NumeroOC               *string  `json:"numero_oc"`
	RequisicionNumero      *string  `json:"requisicion_numero"`
	FechaOC                *string  `json:"fecha_oc"`
	FechaSolicitadaEntrega *string  `json:"fecha_solicitada_entrega"`
	FechaConfirmada        *string  `json:"fecha_confirmada"`
	FechaEntregado         *string  `json:"fecha_entregado"`
	CantidadEntregada      *float64 `json:"cantidad_entregada"`
	FacturaRemision        *string  `json:"factura_remision"`
	Comentarios            *string  `json:"comentarios"`
}

// ToInput converts the request to the domain payload. Non-finite quantities
// are treated as absent rather than rejected, matching how the form clears a
// numeric field.
func (r RequisicionRequest) ToInput() domain.RequisicionInput {
	return domain.RequisicionInput{
		FechaRecepcion:         r.FechaRecepcion,
		ProveedorID:            r.ProveedorID,
		ProductoID:             r.ProductoID,
		PresentacionID:         r.PresentacionID,
		DestinoID:              r.DestinoID,
		EstatusID:              r.EstatusID,
		CantidadSolicitada:     toDecimal(r.CantidadSolicitada),
		UnidadCantidadID:       r.UnidadCantidadID,
		NumeroOC:               r.NumeroOC,
		RequisicionNumero:      r.RequisicionNumero,
		FechaOC:                r.FechaOC,
		FechaSolicitadaEntrega: r.FechaSolicitadaEntrega,
		FechaConfirmada:        r.FechaConfirmada,
		FechaEntregado:         r.FechaEntregado,
		CantidadEntregada:      toDecimal(r.CantidadEntregada),
		FacturaRemision:        r.FacturaRemision,
		Comentarios:            r.Comentarios,
	}
}

func toDecimal(value *float64) *decimal.Decimal {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}

// RequisicionResponse serializes a requisicion. Quantities go out as decimal
// strings so clients never see float rounding, and cantidad_pendiente is
// derived on the way out, never stored.
type RequisicionResponse struct {
	ID                     string    `json:"id"`
	FechaRecepcion         string    `json:"fecha_recepcion"`
	ProveedorID            string    `json:"proveedor_id"`
	ProductoID             string    `json:"producto_id"`
	PresentacionID         string    `json:"presentacion_id"`
	DestinoID              string    `json:"destino_id"`
	EstatusID              string    `json:"estatus_id"`
	CantidadSolicitada     string    `json:"cantidad_solicitada"`
	UnidadCantidadID       string    `json:"unidad_cantidad_id"`
	NumeroOC               *string   `json:"numero_oc"`
	RequisicionNumero      *string   `json:"requisicion_numero"`
	FechaOC                *string   `json:"fecha_oc"`
	FechaSolicitadaEntrega *string   `json:"fecha_solicitada_entrega"`
	FechaConfirmada        *string   `json:"fecha_confirmada"`
	FechaEntregado         *string   `json:"fecha_entregado"`
	CantidadEntregada      *string   `json:"cantidad_entregada"`
	CantidadPendiente      string    `json:"cantidad_pendiente"`
	FacturaRemision        *string   `json:"factura_remision"`
	Comentarios            *string   `json:"comentarios"`
	CreatedBy              string    `json:"created_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewRequisicionResponse maps the domain entity.
func NewRequisicionResponse(req *domain.Requisicion) RequisicionResponse {
	var entregada *string
	if req.CantidadEntregada != nil {
		s := req.CantidadEntregada.String()
		entregada = &s
	}
	return RequisicionResponse{
		ID:                     req.ID,
		FechaRecepcion:         req.FechaRecepcion,
		ProveedorID:            req.ProveedorID,
		ProductoID:             req.ProductoID,
		PresentacionID:         req.PresentacionID,
		DestinoID:              req.DestinoID,
		EstatusID:              req.EstatusID,
		CantidadSolicitada:     req.CantidadSolicitada.String(),
		UnidadCantidadID:       req.UnidadCantidadID,
		NumeroOC:               req.NumeroOC,
		RequisicionNumero:      req.RequisicionNumero,
		FechaOC:                req.FechaOC,
		FechaSolicitadaEntrega: req.FechaSolicitadaEntrega,
		FechaConfirmada:        req.FechaConfirmada,
		FechaEntregado:         req.FechaEntregado,
		CantidadEntregada:      entregada,
		CantidadPendiente:      req.CantidadPendiente().String(),
		FacturaRemision:        req.FacturaRemision,
		Comentarios:            req.Comentarios,
		CreatedBy:              req.CreatedBy,
		CreatedAt:              req.CreatedAt,
		UpdatedAt:              req.UpdatedAt,
	}
}

// NewRequisicionList maps a slice.
func NewRequisicionList(reqs []domain.Requisicion) []RequisicionResponse {
	result := make([]RequisicionResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, NewRequisicionResponse(&reqs[i]))
	}
	return result
}

// HistorialResponse serializes one audit entry.
type HistorialResponse struct {
	ID              string    `json:"id"`
	RequisicionID   string    `json:"requisicion_id"`
	CampoModificado string    `json:"campo_modificado"`
	ValorAnterior   string    `json:"valor_anterior"`
	ValorNuevo      string    `json:"valor_nuevo"`
	UsuarioID       string    `json:"usuario_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewHistorialList maps audit entries.
func NewHistorialList(entries []domain.RequisicionHistorial) []HistorialResponse {
	result := make([]HistorialResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, HistorialResponse{
			ID:              entry.ID,
			RequisicionID:   entry.RequisicionID,
			CampoModificado: entry.CampoModificado,
			ValorAnterior:   entry.ValorAnterior,
			ValorNuevo:      entry.ValorNuevo,
			UsuarioID:       entry.UsuarioID,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return result
}
