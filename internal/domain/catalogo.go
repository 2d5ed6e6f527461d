package domain

import "time"

// CatalogoTabla names one of the six reference catalogs.
type CatalogoTabla string

const (
	TablaProveedores    CatalogoTabla = "proveedores"
	TablaProductos      CatalogoTabla = "productos"
	TablaPresentaciones CatalogoTabla = "presentaciones"
	TablaDestinos       CatalogoTabla = "destinos"
	TablaEstatus        CatalogoTabla = "estatus"
	TablaUnidades       CatalogoTabla = "unidades"
)

// CatalogoTablas lists every reference catalog.
func CatalogoTablas() []CatalogoTabla {
	return []CatalogoTabla{
		TablaProveedores,
		TablaProductos,
		TablaPresentaciones,
		TablaDestinos,
		TablaEstatus,
		TablaUnidades,
	}
}

// Valid reports whether the table name is a known catalog. Repositories rely
// on this before interpolating the name into SQL.
func (t CatalogoTabla) Valid() bool {
	switch t {
	case TablaProveedores, TablaProductos, TablaPresentaciones, TablaDestinos, TablaEstatus, TablaUnidades:
		return true
	default:
		return false
	}
}

// CatalogoItem is a master-data row. Descripcion applies to productos,
// ColorHex to estatus and Abreviatura to unidades; the rest carry only nombre.
// Rows referenced by requisiciones are deactivated instead of deleted.
type CatalogoItem struct {
	ID          string
	Nombre      string
	Descripcion *string
	ColorHex    *string
	Abreviatura *string
	Activo      bool
	CreatedAt   time.Time
}

// Catalogos aggregates every catalog for the pickers and the calendar legend.
type Catalogos struct {
	Proveedores    []CatalogoItem `json:"proveedores"`
	Productos      []CatalogoItem `json:"productos"`
	Presentaciones []CatalogoItem `json:"presentaciones"`
	Destinos       []CatalogoItem `json:"destinos"`
	Estatus        []CatalogoItem `json:"estatus"`
	Unidades       []CatalogoItem `json:"unidades"`
}
