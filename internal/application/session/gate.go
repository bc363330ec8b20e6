package session

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/feed"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/internal/infrastructure/localstore"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

// State estados del gate de sesión.
type State int

const (
	// AwaitingHydration estado inicial: el store local aún no terminó su
	// primera lectura y el token persistido no es confiable.
	AwaitingHydration State = iota
	// CheckingSession validando el token persistido contra el gateway.
	CheckingSession
	// Authenticated sesión válida; colecciones cargadas y feed abierto.
	Authenticated
	// Unauthenticated sin sesión válida; terminal hasta un login exitoso.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case AwaitingHydration:
		return "awaiting_hydration"
	case CheckingSession:
		return "checking_session"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Gate decide el montaje de la aplicación autenticada con un chequeo en dos
// fases: primero espera la hidratación del store local, luego valida el token
// persistido. Al entrar en Authenticated dispara la carga masiva inicial (una
// FetchAll por entidad, en paralelo) y abre las suscripciones realtime.
type Gate struct {
	mu    sync.Mutex
	state State
	user  *entity.User

	store         *localstore.Store
	auth          gateway.AuthGateway
	products      gateway.ProductGateway
	categories    gateway.CategoryGateway
	subcategories gateway.SubcategoryGateway
	cache         *cache.Cache
	feed          *feed.Feed
	log           *logger.Logger
}

// New construye el gate en AwaitingHydration.
func New(log *logger.Logger, store *localstore.Store, auth gateway.AuthGateway, p gateway.ProductGateway, c gateway.CategoryGateway, s gateway.SubcategoryGateway, ch *cache.Cache, f *feed.Feed) *Gate {
	return &Gate{
		state:         AwaitingHydration,
		store:         store,
		auth:          auth,
		products:      p,
		categories:    c,
		subcategories: s,
		cache:         ch,
		feed:          f,
		log:           log,
	}
}

// State devuelve el estado actual.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CurrentUser devuelve el usuario autenticado, o nil.
func (g *Gate) CurrentUser() *entity.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
	g.log.Debug().Str("state", s.String()).Msg("transición del gate de sesión")
}

// Run ejecuta la máquina de estados hasta Authenticated o Unauthenticated.
// Ninguna llamada al gateway ocurre antes de que el store local termine su
// hidratación: el token persistido no existe hasta entonces.
func (g *Gate) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.store.Hydrated():
	}

	g.setState(CheckingSession)

	token := g.store.SessionToken()
	if token == "" {
		g.setState(Unauthenticated)
		return nil
	}

	user, err := g.auth.ValidateSession(ctx, token)
	if err != nil {
		// Fallo transitorio: no se descarta el token, pero no se puede montar.
		g.log.Warn().Err(err).Msg("validación de sesión falló")
		g.setState(Unauthenticated)
		return nil
	}
	if user == nil {
		// Token inválido o expirado: se limpia y se vuelve al login.
		empty := ""
		g.store.Write(localstore.Patch{SessionToken: &empty})
		g.setState(Unauthenticated)
		return nil
	}

	return g.enterAuthenticated(ctx, user)
}

// Login autentica contra el gateway, persiste el nuevo token y re-entra en la
// semántica de CheckingSession hacia Authenticated. Devuelve también el token
// para que la vista lo use como Bearer.
func (g *Gate) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	if !g.store.HasHydrated() {
		return nil, "", domain.ErrNotHydrated
	}
	user, token, err := g.auth.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", domain.ErrUnauthorized
	}
	g.store.Write(localstore.Patch{SessionToken: &token})
	if err := g.enterAuthenticated(ctx, user); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revoca la sesión remota, limpia el token persistido y desmonta:
// cierra las tres suscripciones como unidad y sella la caché para que las
// re-consultas tardías no resuciten datos.
func (g *Gate) Logout(ctx context.Context) {
	if token := g.store.SessionToken(); token != "" {
		if err := g.auth.Logout(ctx, token); err != nil {
			g.log.Warn().Err(err).Msg("revocación de sesión falló")
		}
	}
	empty := ""
	g.store.Write(localstore.Patch{SessionToken: &empty})

	g.feed.Stop()
	g.cache.Close()

	g.mu.Lock()
	g.user = nil
	g.state = Unauthenticated
	g.mu.Unlock()
}

func (g *Gate) enterAuthenticated(ctx context.Context, user *entity.User) error {
	g.cache.Reopen()
	if err := g.bulkLoad(ctx); err != nil {
		g.log.Error().Err(err).Msg("carga inicial falló")
		g.setState(Unauthenticated)
		return err
	}
	if err := g.feed.Start(ctx); err != nil {
		g.log.Error().Err(err).Msg("apertura del feed realtime falló")
		g.setState(Unauthenticated)
		return err
	}
	g.mu.Lock()
	g.user = user
	g.state = Authenticated
	g.mu.Unlock()
	g.log.Info().Str("user", user.Username).Msg("sesión autenticada")
	return nil
}

// bulkLoad una FetchAll por entidad, en paralelo y sin dependencia de orden.
func (g *Gate) bulkLoad(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		list, err := g.products.FetchAll(ctx)
		if err != nil {
			return err
		}
		g.cache.SetProducts(list)
		return nil
	})
	eg.Go(func() error {
		list, err := g.categories.FetchAll(ctx)
		if err != nil {
			return err
		}
		g.cache.SetCategories(list)
		return nil
	})
	eg.Go(func() error {
		list, err := g.subcategories.FetchAll(ctx)
		if err != nil {
			return err
		}
		g.cache.SetSubcategories(list)
		return nil
	})
	return eg.Wait()
}

// RedirectFor decisión declarativa de redirección según (estado, vista
// actual). Devuelve la ruta destino o "" si la vista ya es coherente. Los
// estados previos al veredicto no redirigen (la vista muestra su spinner).
func RedirectFor(state State, currentView string) string {
	onLogin := currentView == "/login" || strings.HasPrefix(currentView, "/login/")
	switch state {
	case Authenticated:
		if onLogin {
			return "/dashboard"
		}
	case Unauthenticated:
		if !onLogin {
			return "/login"
		}
	}
	return ""
}
