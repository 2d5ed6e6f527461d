package domain

import "time"

// RequisicionHistorial is an immutable audit entry: one row per changed field
// per update. The application only ever inserts and reads these; they go away
// solely as a cascade when the parent requisicion is deleted.
type RequisicionHistorial struct {
	ID              string
	RequisicionID   string
	CampoModificado string
	ValorAnterior   string
	ValorNuevo      string
	UsuarioID       string
	CreatedAt       time.Time
}
