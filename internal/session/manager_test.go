package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/internal/server"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

func newAPI(t *testing.T) *rest.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := server.New(server.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@nosaterra.gal",
		AdminPassword: "admin123",
		AdminName:     "Fran",
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return rest.NewClient(ts.URL + "/api")
}

func TestLoginPopulatesSessionAndStoresToken(t *testing.T) {
	api := newAPI(t)
	store := &session.MemoryStore{}
	mgr := session.NewManager(api, store, nil)

	user, err := mgr.Login(context.Background(), "admin@nosaterra.gal", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Fran", user.Name)
	assert.True(t, mgr.IsAdmin())

	token, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, api.Token())
}

func TestResolveReproducesSessionFromStoredToken(t *testing.T) {
	api := newAPI(t)
	store := &session.MemoryStore{}
	first := session.NewManager(api, store, nil)
	_, err := first.Login(context.Background(), "admin@nosaterra.gal", "admin123")
	require.NoError(t, err)

	// Fresh manager and client, same store: a restart with the persisted
	// credential. No credentials are re-prompted.
	api.ClearToken()
	second := session.NewManager(api, store, nil)
	user, err := second.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "admin@nosaterra.gal", user.Email)
}

func TestResolveClearsRejectedCredential(t *testing.T) {
	api := newAPI(t)
	store := &session.MemoryStore{}
	require.NoError(t, store.Save("expired-or-garbage"))

	mgr := session.NewManager(api, store, nil)
	user, err := mgr.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, mgr.CurrentUser())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, api.Token())
}

func TestResolveKeepsTokenOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "temporary outage"}`))
	}))
	t.Cleanup(ts.Close)

	store := &session.MemoryStore{}
	require.NoError(t, store.Save("still-valid-token"))

	api := rest.NewClient(ts.URL)
	mgr := session.NewManager(api, store, nil)
	user, err := mgr.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, rest.IsStatus(err, http.StatusInternalServerError))
	assert.Nil(t, user)

	// Only a 401 means the credential is bad; a server outage must leave the
	// persisted token in place for the next attempt.
	token, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, "still-valid-token", token)
	assert.Empty(t, api.Token())
}

func TestResolveWithoutStoredTokenIsAnonymous(t *testing.T) {
	api := newAPI(t)
	mgr := session.NewManager(api, &session.MemoryStore{}, nil)

	user, err := mgr.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegisterDuplicateEmailSurfacesDetail(t *testing.T) {
	api := newAPI(t)
	mgr := session.NewManager(api, &session.MemoryStore{}, nil)

	_, err := mgr.Register(context.Background(), "Uxía", "uxia@example.com", "secret123")
	require.NoError(t, err)

	other := session.NewManager(api, &session.MemoryStore{}, nil)
	_, err = other.Register(context.Background(), "Dup", "uxia@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, "Email already registered", rest.Detail(err, "fallback"))
}

func TestLogoutClearsEverythingWithoutServerCall(t *testing.T) {
	api := newAPI(t)
	store := &session.MemoryStore{}
	mgr := session.NewManager(api, store, nil)
	_, err := mgr.Login(context.Background(), "admin@nosaterra.gal", "admin123")
	require.NoError(t, err)

	mgr.Logout()
	assert.Nil(t, mgr.CurrentUser())
	assert.Empty(t, api.Token())
	token, _ := store.Load()
	assert.Empty(t, token)
}

func TestSubscribersNotifiedOnIdentityChange(t *testing.T) {
	api := newAPI(t)
	mgr := session.NewManager(api, &session.MemoryStore{}, nil)

	var seen []*models.User
	mgr.Subscribe(func(u *models.User) { seen = append(seen, u) })

	_, err := mgr.Login(context.Background(), "admin@nosaterra.gal", "admin123")
	require.NoError(t, err)
	mgr.Adopt(models.User{ID: mgr.UserID(), Name: "Renamed", Role: models.RoleAdmin})
	mgr.Logout()

	require.Len(t, seen, 3)
	assert.Equal(t, "Fran", seen[0].Name)
	assert.Equal(t, "Renamed", seen[1].Name)
	assert.Nil(t, seen[2])
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/nested/token"
	store := session.NewFileStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc123"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	require.NoError(t, store.Clear()) // idempotent
}
