package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/stockmanager/pkg/logger"
)

// Temas válidos.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Persisted proyección mínima de estado que sobrevive reinicios: tema,
// token de sesión y bandera de layout. La ausencia del blob es un estado
// válido ("nunca persistido"), no un error.
type Persisted struct {
	Theme        string `json:"theme"`
	SessionToken string `json:"session_token,omitempty"`
	SidebarOpen  bool   `json:"sidebar_open"`
}

// Patch mutación parcial: los punteros nil dejan el campo intacto.
type Patch struct {
	Theme        *string
	SessionToken *string
	SidebarOpen  *bool
}

// Store blob JSON en disco con emulación en memoria como fallback. El estado
// en memoria es siempre la fuente de verdad; la persistencia es best-effort.
// Si el medio falla (permisos, cuota), el Store pasa a modo memoria por el
// resto de la vida del proceso: lecturas y escrituras siguen funcionando,
// pero nada sobrevive al reinicio.
type Store struct {
	mu      sync.Mutex
	path    string
	state   Persisted
	loaded  bool // hay proyección válida (persistida o escrita en este proceso)
	memOnly bool

	hydrated     chan struct{}
	hydratedOnce sync.Once
	log          *logger.Logger
}

// New construye el store sin tocar el disco todavía; la hidratación es
// asíncrona respecto a la construcción (ver Hydrate).
func New(path string, log *logger.Logger) *Store {
	return &Store{
		path:     path,
		state:    Persisted{Theme: ThemeLight, SidebarOpen: true},
		hydrated: make(chan struct{}),
		log:      log,
	}
}

// Hydrate intenta la primera lectura del blob y marca el store como hidratado
// exactamente una vez, haya encontrado datos o no. Los errores de lectura se
// registran y se tragan: la hidratación "exitosa" significa intentada.
func (s *Store) Hydrate() {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		var p Persisted
		if jsonErr := json.Unmarshal(data, &p); jsonErr != nil {
			s.log.Warn().Err(jsonErr).Str("path", s.path).Msg("blob local corrupto, se ignora")
		} else {
			s.state = p
			s.loaded = true
		}
	case errors.Is(err, os.ErrNotExist):
		// nunca persistido: estado válido
	default:
		s.log.Warn().Err(err).Str("path", s.path).Msg("almacenamiento local inaccesible, modo memoria")
		s.memOnly = true
	}
	s.mu.Unlock()
	s.hydratedOnce.Do(func() { close(s.hydrated) })
}

// Hydrated se cierra exactamente una vez, tras el primer intento de lectura.
// Los componentes que dependen de SessionToken/Theme deben bloquearse aquí.
func (s *Store) Hydrated() <-chan struct{} {
	return s.hydrated
}

// HasHydrated indica si el primer intento de lectura ya ocurrió.
func (s *Store) HasHydrated() bool {
	select {
	case <-s.hydrated:
		return true
	default:
		return false
	}
}

// Read devuelve una copia de la última proyección, o nil si nunca se
// persistió nada. Nunca falla.
func (s *Store) Read() *Persisted {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil
	}
	cp := s.state
	return &cp
}

// Write fusiona el parche en la proyección y la persiste de forma síncrona.
// Un fallo del medio no revierte el cambio en memoria: se registra, el store
// pasa a modo memoria y las operaciones siguientes operan sobre la emulación.
func (s *Store) Write(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Theme != nil {
		s.state.Theme = *p.Theme
	}
	if p.SessionToken != nil {
		s.state.SessionToken = *p.SessionToken
	}
	if p.SidebarOpen != nil {
		s.state.SidebarOpen = *p.SidebarOpen
	}
	s.loaded = true
	if s.memOnly {
		return
	}
	if err := s.persist(); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("persistencia local falló, modo memoria")
		s.memOnly = true
	}
}

// SessionToken acceso directo al token persistido ("" si no hay).
func (s *Store) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SessionToken
}

// persist escribe el blob de forma atómica (tmp + rename). Llamar con el lock tomado.
func (s *Store) persist() error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".storage-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
