package postgres

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/config"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

var _ gateway.Subscriber = (*Listener)(nil)

const (
	subscriptionBuffer = 64
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// notifyChannels mapea canal NOTIFY -> tipo de entidad. Los triggers de
// migrations/schema.sql publican en estos tres canales.
var notifyChannels = map[string]gateway.EntityType{
	"products_changes":      gateway.EntityProduct,
	"categories_changes":    gateway.EntityCategory,
	"subcategories_changes": gateway.EntitySubcategory,
}

// Listener escucha los canales LISTEN/NOTIFY de cambios y reparte los eventos
// a las suscripciones activas. Usa una conexión dedicada (no el pool: una
// conexión en LISTEN queda bloqueada en WaitForNotification) y se reconecta
// sola con backoff si la conexión cae. Cada reconexión dispara los callbacks
// registrados con OnReconnect, porque las notificaciones emitidas durante la
// caída se perdieron y el consumidor debe re-cargar el estado.
type Listener struct {
	dsn string
	log *logger.Logger

	mu           sync.Mutex
	nextID       int
	subs         map[gateway.EntityType]map[int]chan gateway.ChangeEvent
	reconnectFn  []func()
	everListened bool
}

// NewListener construye el listener. Run debe arrancarse en su propia goroutine.
func NewListener(cfg config.DBConfig, log *logger.Logger) *Listener {
	return &Listener{
		dsn:  dsnWithIPv4(cfg),
		log:  log,
		subs: make(map[gateway.EntityType]map[int]chan gateway.ChangeEvent),
	}
}

// Subscribe abre un flujo de eventos para un tipo de entidad. El canal se
// cierra al invocar la función de cierre devuelta.
func (l *Listener) Subscribe(ctx context.Context, entity gateway.EntityType) (<-chan gateway.ChangeEvent, func(), error) {
	ch := make(chan gateway.ChangeEvent, subscriptionBuffer)

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	if l.subs[entity] == nil {
		l.subs[entity] = make(map[int]chan gateway.ChangeEvent)
	}
	l.subs[entity][id] = ch
	l.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs[entity], id)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, stop, nil
}

// OnReconnect registra un callback que se invoca tras cada reconexión.
func (l *Listener) OnReconnect(fn func()) {
	l.mu.Lock()
	l.reconnectFn = append(l.reconnectFn, fn)
	l.mu.Unlock()
}

// Run mantiene la escucha viva hasta que el contexto se cancele. Bloquea;
// llamarlo con `go listener.Run(ctx)`.
func (l *Listener) Run(ctx context.Context) {
	delay := reconnectBaseDelay
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn().Err(err).Dur("retry_in", delay).Msg("escucha realtime caída, reintentando")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

// listen abre la conexión dedicada, ejecuta LISTEN en los tres canales y
// consume notificaciones hasta que algo falle.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	for channel := range notifyChannels {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			return err
		}
	}
	l.log.Info().Msg("escucha realtime establecida")

	// Solo las reconexiones sanan: en la primera escucha el consumidor aún no
	// cargó nada que pueda haberse desactualizado.
	l.mu.Lock()
	fns := make([]func(), 0, len(l.reconnectFn))
	if l.everListened {
		fns = append(fns, l.reconnectFn...)
	}
	l.everListened = true
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}

	for {
		note, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(note.Channel, note.Payload)
	}
}

// dispatch decodifica el payload y lo entrega a las suscripciones del tipo.
// Un suscriptor con el buffer lleno pierde el evento (se registra en el log);
// la sanación por reconexión no aplica aquí, pero el buffer es amplio y los
// consumidores drenan rápido.
func (l *Listener) dispatch(channel, payload string) {
	entity, ok := notifyChannels[channel]
	if !ok {
		return
	}
	var event gateway.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		l.log.Error().Err(err).Str("channel", channel).Msg("payload de notificación ilegible")
		return
	}

	l.mu.Lock()
	targets := make([]chan gateway.ChangeEvent, 0, len(l.subs[entity]))
	for _, ch := range l.subs[entity] {
		targets = append(targets, ch)
	}
	l.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- event:
		default:
			l.log.Warn().Str("channel", channel).Msg("suscripción saturada, evento descartado")
		}
	}
}
