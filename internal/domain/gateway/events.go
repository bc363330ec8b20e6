package gateway

import (
	"context"
	"encoding/json"
)

// EntityType identifica una de las tres colecciones sincronizadas.
type EntityType string

const (
	EntityProduct     EntityType = "products"
	EntityCategory    EntityType = "categories"
	EntitySubcategory EntityType = "subcategories"
)

// EventType tipo de cambio notificado por el canal realtime.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// RowRef referencia mínima a la fila afectada (solo id en DELETE).
type RowRef struct {
	ID string `json:"id"`
}

// ChangeEvent notificación de cambio de una fila. New trae la fila cruda sin
// relaciones denormalizadas (null en DELETE); Old solo trae el id. El orden de
// entrega es orden de commit dentro de cada canal; entre canales no hay garantía.
type ChangeEvent struct {
	Type EventType       `json:"event_type"`
	New  json.RawMessage `json:"new,omitempty"`
	Old  *RowRef         `json:"old,omitempty"`
}

// NewID devuelve el id de la fila nueva, o "" si no aplica.
func (e ChangeEvent) NewID() string {
	if len(e.New) == 0 {
		return ""
	}
	var ref RowRef
	if err := json.Unmarshal(e.New, &ref); err != nil {
		return ""
	}
	return ref.ID
}

// Subscriber abre flujos de notificaciones por tipo de entidad. El canal
// devuelto entrega eventos en orden de llegada; la función de cierre cancela
// la suscripción y cierra el canal. OnReconnect registra un callback que se
// invoca cada vez que la escucha se restablece tras una caída (para que el
// consumidor pueda sanar notificaciones perdidas re-cargando el estado).
type Subscriber interface {
	Subscribe(ctx context.Context, entity EntityType) (<-chan ChangeEvent, func(), error)
	OnReconnect(fn func())
}
