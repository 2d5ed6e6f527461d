package events

import (
	"time"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequisicionCreated EventType = "requisicion_created"
	EventRequisicionUpdated EventType = "requisicion_updated"
	EventRequisicionDeleted EventType = "requisicion_deleted"
	EventUserRegistered     EventType = "user_registered"
	EventUserApproved       EventType = "user_approved"
	EventUserRejected       EventType = "user_rejected"
)

// Event represents a domain event emitted by services. EntityID is the
// requisicion or profile the event concerns; ActorID is the acting user.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequisicionCreatedPayload payload.
type RequisicionCreatedPayload struct {
	ProveedorID    string `json:"proveedor_id"`
	ProductoID     string `json:"producto_id"`
	FechaRecepcion string `json:"fecha_recepcion"`
	EstatusID      string `json:"estatus_id"`
}

// RequisicionUpdatedPayload carries the changed field labels; the full diff
// lives in the historial table.
type RequisicionUpdatedPayload struct {
	CamposModificados []string `json:"campos_modificados"`
}

// RequisicionDeletedPayload payload.
type RequisicionDeletedPayload struct {
	RequisicionID string `json:"requisicion_id"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// UserApprovedPayload payload.
type UserApprovedPayload struct {
	Rol domain.Rol `json:"rol"`
}

// UserRejectedPayload payload.
type UserRejectedPayload struct {
	Email string `json:"email"`
}
