// Package audit computes field-level change records for requisicion updates.
// Diffing is pure; persisting the result is the mutation gateway's job.
package audit

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// CambioCampo is one audited change: the human-readable field label plus the
// stringified before and after values.
type CambioCampo struct {
	Campo    string
	Anterior string
	Nuevo    string
}

// fieldLabels maps input keys to display labels. Unmapped keys fall back to
// the raw key.
var fieldLabels = map[string]string{
	"fecha_recepcion":          "Fecha de Recepción",
	"proveedor_id":             "Proveedor",
	"producto_id":              "Producto",
	"presentacion_id":          "Presentación",
	"destino_id":               "Destino",
	"estatus_id":               "Estatus",
	"cantidad_solicitada":      "Cantidad Solicitada",
	"unidad_cantidad_id":       "Unidad de Medida",
	"numero_oc":                "Número O.C.",
	"requisicion_numero":       "Número de Requisición",
	"fecha_oc":                 "Fecha O.C.",
	"fecha_solicitada_entrega": "Fecha Solicitada de Entrega",
	"fecha_confirmada":         "Fecha Confirmada",
	"fecha_entregado":          "Fecha Entregado",
	"cantidad_entregada":       "Cantidad Entregada",
	"factura_remision":         "Factura / Remisión",
	"comentarios":              "Comentarios",
}

// Label resolves the display label for an input key.
func Label(key string) string {
	if label, ok := fieldLabels[key]; ok {
		return label
	}
	return key
}

type diffField struct {
	key string
	old func(*domain.Requisicion) string
	// new returns the incoming value; present is false when the field is
	// absent from the partial payload.
	new func(*domain.RequisicionInput) (value string, present bool)
}

// diffFields fixes the emission order to the declared field order of
// RequisicionInput, keeping audit ordering deterministic.
var diffFields = []diffField{
	{"fecha_recepcion",
		func(r *domain.Requisicion) string { return r.FechaRecepcion },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FechaRecepcion) }},
	{"proveedor_id",
		func(r *domain.Requisicion) string { return r.ProveedorID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.ProveedorID) }},
	{"producto_id",
		func(r *domain.Requisicion) string { return r.ProductoID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.ProductoID) }},
	{"presentacion_id",
		func(r *domain.Requisicion) string { return r.PresentacionID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.PresentacionID) }},
	{"destino_id",
		func(r *domain.Requisicion) string { return r.DestinoID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.DestinoID) }},
	{"estatus_id",
		func(r *domain.Requisicion) string { return r.EstatusID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.EstatusID) }},
	{"cantidad_solicitada",
		func(r *domain.Requisicion) string { return r.CantidadSolicitada.String() },
		func(in *domain.RequisicionInput) (string, bool) { return decValue(in.CantidadSolicitada) }},
	{"unidad_cantidad_id",
		func(r *domain.Requisicion) string { return r.UnidadCantidadID },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.UnidadCantidadID) }},
	{"numero_oc",
		func(r *domain.Requisicion) string { return strOrEmpty(r.NumeroOC) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.NumeroOC) }},
	{"requisicion_numero",
		func(r *domain.Requisicion) string { return strOrEmpty(r.RequisicionNumero) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.RequisicionNumero) }},
	{"fecha_oc",
		func(r *domain.Requisicion) string { return strOrEmpty(r.FechaOC) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FechaOC) }},
	{"fecha_solicitada_entrega",
		func(r *domain.Requisicion) string { return strOrEmpty(r.FechaSolicitadaEntrega) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FechaSolicitadaEntrega) }},
	{"fecha_confirmada",
		func(r *domain.Requisicion) string { return strOrEmpty(r.FechaConfirmada) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FechaConfirmada) }},
	{"fecha_entregado",
		func(r *domain.Requisicion) string { return strOrEmpty(r.FechaEntregado) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FechaEntregado) }},
	{"cantidad_entregada",
		func(r *domain.Requisicion) string { return decOrEmpty(r.CantidadEntregada) },
		func(in *domain.RequisicionInput) (string, bool) { return decValue(in.CantidadEntregada) }},
	{"factura_remision",
		func(r *domain.Requisicion) string { return strOrEmpty(r.FacturaRemision) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.FacturaRemision) }},
	{"comentarios",
		func(r *domain.Requisicion) string { return strOrEmpty(r.Comentarios) },
		func(in *domain.RequisicionInput) (string, bool) { return strValue(in.Comentarios) }},
}

// Diff returns one change record per field that is present in the payload and
// whose stringified value differs from the snapshot. A nil-to-empty-string
// round trip stringifies identically on both sides, so it emits nothing.
func Diff(old *domain.Requisicion, input domain.RequisicionInput) []CambioCampo {
	var cambios []CambioCampo
	for _, field := range diffFields {
		nuevo, present := field.new(&input)
		if !present {
			continue
		}
		anterior := field.old(old)
		if anterior == nuevo {
			continue
		}
		cambios = append(cambios, CambioCampo{
			Campo:    Label(field.key),
			Anterior: anterior,
			Nuevo:    nuevo,
		})
	}
	return cambios
}

func strValue(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	return *v, true
}

func decValue(v *decimal.Decimal) (string, bool) {
	if v == nil {
		return "", false
	}
	return v.String(), true
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func decOrEmpty(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}
