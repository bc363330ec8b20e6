package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// Cache colecciones en memoria de productos, categorías y subcategorías.
// Única fuente de verdad para las vistas: el gate hace la carga inicial
// (SetAll) y el feed realtime aplica mutaciones (Upsert/Remove); nadie más
// escribe. Las mutaciones son atómicas frente a lecturas concurrentes y
// notifican a los observadores registrados después de aplicarse.
//
// Tras Close() toda mutación es un no-op: re-consultas en vuelo que terminen
// después del teardown no pueden resucitar datos de una sesión cerrada.
type Cache struct {
	mu     sync.RWMutex
	closed bool

	products      []entity.Product     // orden de display: más reciente primero
	categories    []entity.Category    // orden de display: alfabético por nombre
	subcategories []entity.Subcategory // orden de display: alfabético por nombre

	obsMu     sync.Mutex
	observers map[int]func(gateway.EntityType)
	nextObs   int
}

// New construye una caché vacía.
func New() *Cache {
	return &Cache{observers: make(map[int]func(gateway.EntityType))}
}

// Subscribe registra un callback invocado después de cada SetAll/Upsert/Remove
// con el tipo de entidad mutado. Devuelve la función de baja.
func (c *Cache) Subscribe(fn func(gateway.EntityType)) func() {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

func (c *Cache) notify(et gateway.EntityType) {
	c.obsMu.Lock()
	fns := make([]func(gateway.EntityType), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(et)
	}
}

// Close marca la caché como desmontada. Lecturas siguen funcionando (devuelven
// el último estado), mutaciones posteriores se ignoran.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Reopen limpia las colecciones y vuelve a aceptar mutaciones (nuevo login).
func (c *Cache) Reopen() {
	c.mu.Lock()
	c.closed = false
	c.products = nil
	c.categories = nil
	c.subcategories = nil
	c.mu.Unlock()
}

// Closed indica si la caché fue desmontada.
func (c *Cache) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ─── SetAll ──────────────────────────────────────────────────────────────────

// SetProducts reemplaza la colección completa (carga inicial). Reemplazar por
// una lista idéntica no notifica a los observadores.
func (c *Cache) SetProducts(list []entity.Product) {
	c.mu.Lock()
	if c.closed || sameProducts(c.products, list) {
		c.mu.Unlock()
		return
	}
	c.products = append([]entity.Product(nil), list...)
	c.mu.Unlock()
	c.notify(gateway.EntityProduct)
}

// SetCategories reemplaza la colección completa (carga inicial).
func (c *Cache) SetCategories(list []entity.Category) {
	c.mu.Lock()
	if c.closed || sameCategories(c.categories, list) {
		c.mu.Unlock()
		return
	}
	c.categories = append([]entity.Category(nil), list...)
	c.mu.Unlock()
	c.notify(gateway.EntityCategory)
}

// SetSubcategories reemplaza la colección completa (carga inicial).
func (c *Cache) SetSubcategories(list []entity.Subcategory) {
	c.mu.Lock()
	if c.closed || sameSubcategories(c.subcategories, list) {
		c.mu.Unlock()
		return
	}
	c.subcategories = append([]entity.Subcategory(nil), list...)
	c.mu.Unlock()
	c.notify(gateway.EntitySubcategory)
}

// ─── Upsert ──────────────────────────────────────────────────────────────────

// UpsertProduct reemplaza en su posición si el id existe; si no, lo antepone
// (los productos se muestran del más reciente al más antiguo). Última
// aplicación gana: no hay reconciliación por versión.
func (c *Cache) UpsertProduct(p entity.Product) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	replaced := false
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		c.products = append([]entity.Product{p}, c.products...)
	}
	c.mu.Unlock()
	c.notify(gateway.EntityProduct)
}

// UpsertCategory reemplaza en su posición si el id existe; si no, inserta y
// re-ordena alfabéticamente por nombre.
func (c *Cache) UpsertCategory(cat entity.Category) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	replaced := false
	for i := range c.categories {
		if c.categories[i].ID == cat.ID {
			c.categories[i] = cat
			replaced = true
			break
		}
	}
	if !replaced {
		c.categories = append(c.categories, cat)
		sort.SliceStable(c.categories, func(i, j int) bool {
			return nameLess(c.categories[i].Name, c.categories[j].Name)
		})
	}
	c.mu.Unlock()
	c.notify(gateway.EntityCategory)
}

// UpsertSubcategory reemplaza en su posición si el id existe; si no, inserta y
// re-ordena alfabéticamente por nombre.
func (c *Cache) UpsertSubcategory(sub entity.Subcategory) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	replaced := false
	for i := range c.subcategories {
		if c.subcategories[i].ID == sub.ID {
			c.subcategories[i] = sub
			replaced = true
			break
		}
	}
	if !replaced {
		c.subcategories = append(c.subcategories, sub)
		sort.SliceStable(c.subcategories, func(i, j int) bool {
			return nameLess(c.subcategories[i].Name, c.subcategories[j].Name)
		})
	}
	c.mu.Unlock()
	c.notify(gateway.EntitySubcategory)
}

// ─── Remove ──────────────────────────────────────────────────────────────────

// RemoveProduct elimina por id; no-op si no existe (tolera notificaciones de
// borrado duplicadas).
func (c *Cache) RemoveProduct(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	removed := false
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if removed {
		c.notify(gateway.EntityProduct)
	}
}

// RemoveCategory elimina por id; no-op si no existe.
func (c *Cache) RemoveCategory(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	removed := false
	for i := range c.categories {
		if c.categories[i].ID == id {
			c.categories = append(c.categories[:i], c.categories[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if removed {
		c.notify(gateway.EntityCategory)
	}
}

// RemoveSubcategory elimina por id; no-op si no existe.
func (c *Cache) RemoveSubcategory(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	removed := false
	for i := range c.subcategories {
		if c.subcategories[i].ID == id {
			c.subcategories = append(c.subcategories[:i], c.subcategories[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if removed {
		c.notify(gateway.EntitySubcategory)
	}
}

// ─── Lecturas ────────────────────────────────────────────────────────────────

// Products devuelve una copia de la colección en su orden de display.
func (c *Cache) Products() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Product(nil), c.products...)
}

// Categories devuelve una copia de la colección en su orden de display.
func (c *Cache) Categories() []entity.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Category(nil), c.categories...)
}

// Subcategories devuelve una copia de la colección en su orden de display.
func (c *Cache) Subcategories() []entity.Subcategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Subcategory(nil), c.subcategories...)
}

// Product busca por id; (zero, false) si no está.
func (c *Cache) Product(id string) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.products {
		if c.products[i].ID == id {
			return c.products[i], true
		}
	}
	return entity.Product{}, false
}

// Category busca por id; (zero, false) si no está.
func (c *Cache) Category(id string) (entity.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.categories {
		if c.categories[i].ID == id {
			return c.categories[i], true
		}
	}
	return entity.Category{}, false
}

// Subcategory busca por id; (zero, false) si no está.
func (c *Cache) Subcategory(id string) (entity.Subcategory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.subcategories {
		if c.subcategories[i].ID == id {
			return c.subcategories[i], true
		}
	}
	return entity.Subcategory{}, false
}

// ─── Derivaciones puras (recalculadas en cada lectura) ───────────────────────

// SubcategoriesOf devuelve las subcategorías de una categoría, en orden de display.
func (c *Cache) SubcategoriesOf(categoryID string) []entity.Subcategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []entity.Subcategory
	for i := range c.subcategories {
		if c.subcategories[i].CategoryID == categoryID {
			out = append(out, c.subcategories[i])
		}
	}
	return out
}

// ProductCountOfCategory cuenta productos que referencian la categoría.
func (c *Cache) ProductCountOfCategory(categoryID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.products {
		if c.products[i].CategoryID == categoryID {
			n++
		}
	}
	return n
}

// ProductCountOfSubcategory cuenta productos que referencian la subcategoría.
func (c *Cache) ProductCountOfSubcategory(subcategoryID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.products {
		if c.products[i].SubcategoryID == subcategoryID {
			n++
		}
	}
	return n
}

// Brands devuelve las marcas únicas no vacías, ordenadas.
func (c *Cache) Brands() []string {
	c.mu.RLock()
	seen := make(map[string]struct{})
	var out []string
	for i := range c.products {
		b := c.products[i].Brand
		if b == "" {
			continue
		}
		if _, ok := seen[b]; !ok {
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// ─── Comparaciones internas ──────────────────────────────────────────────────

// sameProducts considera iguales dos listas con los mismos ids y updated_at en
// el mismo orden. Suficiente para detectar el reemplazo idéntico de SetAll sin
// comparar campo a campo.
func sameProducts(a, b []entity.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}

func sameCategories(a, b []entity.Category) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}

func sameSubcategories(a, b []entity.Subcategory) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}

func nameLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
