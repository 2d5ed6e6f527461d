package dto

import (
	"time"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// CatalogoItemRequest payload for creating or editing a catalog row. The
// optional fields only apply to the tables that carry them.
type CatalogoItemRequest struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	ColorHex    *string `json:"color_hex"`
	Abreviatura *string `json:"abreviatura"`
}

// ToItem converts the request to the domain entity.
func (r CatalogoItemRequest) ToItem() domain.CatalogoItem {
	return domain.CatalogoItem{
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		ColorHex:    r.ColorHex,
		Abreviatura: r.Abreviatura,
	}
}

// SetActivoRequest payload.
type SetActivoRequest struct {
	Activo bool `json:"activo"`
}

// CatalogoItemResponse serializes a catalog row.
type CatalogoItemResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	ColorHex    *string   `json:"color_hex,omitempty"`
	Abreviatura *string   `json:"abreviatura,omitempty"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCatalogoItemResponse maps the domain entity.
func NewCatalogoItemResponse(item *domain.CatalogoItem) CatalogoItemResponse {
	return CatalogoItemResponse{
		ID:          item.ID,
		Nombre:      item.Nombre,
		Descripcion: item.Descripcion,
		ColorHex:    item.ColorHex,
		Abreviatura: item.Abreviatura,
		Activo:      item.Activo,
		CreatedAt:   item.CreatedAt,
	}
}

// NewCatalogoItemList maps a slice.
func NewCatalogoItemList(items []domain.CatalogoItem) []CatalogoItemResponse {
	result := make([]CatalogoItemResponse, 0, len(items))
	for i := range items {
		result = append(result, NewCatalogoItemResponse(&items[i]))
	}
	return result
}
