package localstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/infrastructure/localstore"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

func tempStore(t *testing.T) (*localstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.json")
	return localstore.New(path, logger.Nop()), path
}

// Escribir y re-hidratar en un store nuevo devuelve la misma proyección.
func TestStore_RoundTrip(t *testing.T) {
	s, path := tempStore(t)
	s.Hydrate()

	dark := localstore.ThemeDark
	tok := "token-123"
	closed := false
	s.Write(localstore.Patch{Theme: &dark, SessionToken: &tok, SidebarOpen: &closed})

	reborn := localstore.New(path, logger.Nop())
	reborn.Hydrate()
	got := reborn.Read()
	require.NotNil(t, got)
	assert.Equal(t, localstore.ThemeDark, got.Theme)
	assert.Equal(t, "token-123", got.SessionToken)
	assert.False(t, got.SidebarOpen)
	assert.Equal(t, "token-123", reborn.SessionToken())
}

// La ausencia del blob es un estado válido: Read devuelve nil, no error.
func TestStore_SinBlobPrevio(t *testing.T) {
	s, _ := tempStore(t)
	s.Hydrate()

	assert.Nil(t, s.Read(), "nunca persistido: proyección nula")
	assert.Empty(t, s.SessionToken())
	assert.True(t, s.HasHydrated(), "la hidratación intentada cuenta como completa")
}

// Un blob corrupto se ignora con defaults; no bloquea el arranque.
func TestStore_BlobCorruptoSeIgnora(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	s := localstore.New(path, logger.Nop())
	s.Hydrate()

	assert.Nil(t, s.Read(), "el blob corrupto no produce proyección")
	assert.True(t, s.HasHydrated())
}

// El parche parcial deja intactos los campos no mencionados.
func TestStore_PatchParcial(t *testing.T) {
	s, _ := tempStore(t)
	s.Hydrate()

	dark := localstore.ThemeDark
	s.Write(localstore.Patch{Theme: &dark})
	tok := "abc"
	s.Write(localstore.Patch{SessionToken: &tok})

	got := s.Read()
	require.NotNil(t, got)
	assert.Equal(t, localstore.ThemeDark, got.Theme, "el tema no se pierde al escribir el token")
	assert.Equal(t, "abc", got.SessionToken)
}

// La señal de hidratación se emite exactamente una vez, incluso con llamadas repetidas.
func TestStore_HidratacionUnicaVez(t *testing.T) {
	s, _ := tempStore(t)
	assert.False(t, s.HasHydrated())

	s.Hydrate()
	s.Hydrate() // repetida: inofensiva

	select {
	case <-s.Hydrated():
	default:
		t.Fatal("el canal de hidratación debe estar cerrado")
	}
	assert.True(t, s.HasHydrated())
}

// El blob en disco es JSON plano con los nombres esperados.
func TestStore_FormatoDelBlob(t *testing.T) {
	s, path := tempStore(t)
	s.Hydrate()
	tok := "token-xyz"
	s.Write(localstore.Patch{SessionToken: &tok})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "token-xyz", raw["session_token"])
	assert.Equal(t, "light", raw["theme"])
}
