package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

// Feed puente entre las suscripciones realtime del gateway y la caché de
// entidades. Un goroutine por canal consume notificaciones en orden de
// llegada; entre canales no hay orden garantizado.
//
// Para productos y subcategorías la notificación cruda llega sin relaciones
// denormalizadas, así que INSERT/UPDATE re-consultan la entidad completa con
// FetchOne antes del upsert. La re-consulta corre en su propio goroutine para
// no bloquear la siguiente notificación del canal: si dos notificaciones del
// mismo id se solapan, ambas re-consultas terminan y gana la que complete de
// última. Las categorías no denormalizan nada y aplican el payload directo.
type Feed struct {
	log           *logger.Logger
	cache         *cache.Cache
	products      gateway.ProductGateway
	categories    gateway.CategoryGateway
	subcategories gateway.SubcategoryGateway
	sub           gateway.Subscriber

	mu      sync.Mutex
	cancel  context.CancelFunc
	stops   []func()
	wg      sync.WaitGroup
	started bool
}

// New construye el feed sin arrancarlo.
func New(log *logger.Logger, c *cache.Cache, p gateway.ProductGateway, cat gateway.CategoryGateway, sub gateway.SubcategoryGateway, s gateway.Subscriber) *Feed {
	return &Feed{
		log:           log,
		cache:         c,
		products:      p,
		categories:    cat,
		subcategories: sub,
		sub:           s,
	}
}

// Start abre las tres suscripciones y lanza sus consumidores. Registra además
// el callback de reconexión que re-carga el estado completo para sanar
// notificaciones perdidas durante la caída.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)

	for _, et := range []gateway.EntityType{gateway.EntityProduct, gateway.EntityCategory, gateway.EntitySubcategory} {
		ch, stop, err := f.sub.Subscribe(ctx, et)
		if err != nil {
			for _, s := range f.stops {
				s()
			}
			f.stops = nil
			cancel()
			return err
		}
		f.stops = append(f.stops, stop)
		f.wg.Add(1)
		go f.consume(ctx, et, ch)
	}

	f.sub.OnReconnect(func() { f.heal(ctx) })
	f.cancel = cancel
	f.started = true
	return nil
}

// Stop cancela las tres suscripciones como unidad. Re-consultas en vuelo
// pueden completar después; la caché cerrada las convierte en no-ops.
func (f *Feed) Stop() {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return
	}
	stops := f.stops
	cancel := f.cancel
	f.stops = nil
	f.cancel = nil
	f.started = false
	f.mu.Unlock()

	for _, s := range stops {
		s()
	}
	cancel()
	f.wg.Wait()
}

func (f *Feed) consume(ctx context.Context, et gateway.EntityType, ch <-chan gateway.ChangeEvent) {
	defer f.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			f.apply(ctx, et, ev)
		}
	}
}

func (f *Feed) apply(ctx context.Context, et gateway.EntityType, ev gateway.ChangeEvent) {
	if ev.Type == gateway.EventDelete {
		if ev.Old == nil || ev.Old.ID == "" {
			f.log.Warn().Str("entity", string(et)).Msg("notificación DELETE sin id, ignorada")
			return
		}
		switch et {
		case gateway.EntityProduct:
			f.cache.RemoveProduct(ev.Old.ID)
		case gateway.EntityCategory:
			f.cache.RemoveCategory(ev.Old.ID)
		case gateway.EntitySubcategory:
			f.cache.RemoveSubcategory(ev.Old.ID)
		}
		return
	}

	switch et {
	case gateway.EntityCategory:
		// Sin relaciones denormalizadas: el payload crudo es suficiente.
		var cat entity.Category
		if err := json.Unmarshal(ev.New, &cat); err != nil || cat.ID == "" {
			f.log.Warn().Err(err).Msg("payload de categoría inválido, ignorado")
			return
		}
		f.cache.UpsertCategory(cat)
	case gateway.EntityProduct:
		id := ev.NewID()
		if id == "" {
			f.log.Warn().Msg("notificación de producto sin id, ignorada")
			return
		}
		go f.refetchProduct(ctx, id)
	case gateway.EntitySubcategory:
		id := ev.NewID()
		if id == "" {
			f.log.Warn().Msg("notificación de subcategoría sin id, ignorada")
			return
		}
		go f.refetchSubcategory(ctx, id)
	}
}

// refetchProduct re-consulta el producto completo (con Category/Subcategory
// pobladas) y lo aplica. Si la fila ya no existe, la notificación DELETE que
// sigue en el canal se encarga del remove.
func (f *Feed) refetchProduct(ctx context.Context, id string) {
	p, err := f.products.FetchOne(ctx, id)
	if err != nil {
		f.log.Warn().Err(err).Str("id", id).Msg("re-consulta de producto falló")
		return
	}
	if p == nil {
		return
	}
	f.cache.UpsertProduct(*p)
}

func (f *Feed) refetchSubcategory(ctx context.Context, id string) {
	s, err := f.subcategories.FetchOne(ctx, id)
	if err != nil {
		f.log.Warn().Err(err).Str("id", id).Msg("re-consulta de subcategoría falló")
		return
	}
	if s == nil {
		return
	}
	f.cache.UpsertSubcategory(*s)
}

// heal re-carga las tres colecciones tras una reconexión del canal realtime,
// para absorber notificaciones perdidas mientras estuvo caído.
func (f *Feed) heal(ctx context.Context) {
	f.log.Info().Msg("canal realtime reconectado, re-cargando colecciones")
	if list, err := f.categories.FetchAll(ctx); err == nil {
		f.cache.SetCategories(list)
	} else {
		f.log.Warn().Err(err).Msg("re-carga de categorías falló")
	}
	if list, err := f.subcategories.FetchAll(ctx); err == nil {
		f.cache.SetSubcategories(list)
	} else {
		f.log.Warn().Err(err).Msg("re-carga de subcategorías falló")
	}
	if list, err := f.products.FetchAll(ctx); err == nil {
		f.cache.SetProducts(list)
	} else {
		f.log.Warn().Err(err).Msg("re-carga de productos falló")
	}
}
