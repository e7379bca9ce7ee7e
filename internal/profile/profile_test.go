package profile_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/internal/profile"
	"github.com/nosa-terra/comparsa-client/internal/server"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

func newEnv(t *testing.T) (*session.Manager, *profile.Synchronizer, *httptest.Server) {
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

	api := rest.NewClient(ts.URL + "/api")
	sess := session.NewManager(api, &session.MemoryStore{}, nil)
	_, err = sess.Login(context.Background(), "admin@nosaterra.gal", "admin123")
	require.NoError(t, err)
	return sess, profile.New(api, sess, nil), ts
}

func TestLoadSelfRequiresSession(t *testing.T) {
	_, view, ts := newEnv(t)

	api := rest.NewClient(ts.URL + "/api")
	anon := session.NewManager(api, &session.MemoryStore{}, nil)
	anonView := profile.New(api, anon, nil)
	assert.ErrorIs(t, anonView.LoadSelf(), session.ErrNotAuthenticated)

	require.NoError(t, view.LoadSelf())
	assert.True(t, view.Editable())
	assert.Equal(t, "Fran", view.Record().Name)
}

func TestDraftStagingLeavesRecordUntouched(t *testing.T) {
	_, view, _ := newEnv(t)
	require.NoError(t, view.LoadSelf())
	require.NoError(t, view.BeginEdit())

	d := view.Draft()
	d.Bio = "Percusionista"
	d.Location = "Vigo"
	view.SetDraft(d)

	assert.Empty(t, view.Record().Bio)
	assert.Equal(t, "Percusionista", view.Draft().Bio)

	view.Cancel()
	assert.False(t, view.Editing())
	assert.Empty(t, view.Draft().Bio)
}

func TestSaveAdoptsIntoSession(t *testing.T) {
	sess, view, _ := newEnv(t)
	require.NoError(t, view.LoadSelf())
	require.NoError(t, view.BeginEdit())

	var seen []models.User
	sess.Subscribe(func(u *models.User) {
		if u != nil {
			seen = append(seen, *u)
		}
	})

	d := view.Draft()
	d.Bio = "Directora da comparsa"
	d.Phone = "+34 600 000 000"
	view.SetDraft(d)

	updated, err := view.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Directora da comparsa", updated.Bio)
	assert.False(t, view.Editing())
	assert.Equal(t, "Directora da comparsa", view.Record().Bio)

	// The session carries the new record for every other consumer.
	require.NotNil(t, sess.CurrentUser())
	assert.Equal(t, "Directora da comparsa", sess.CurrentUser().Bio)
	require.Len(t, seen, 1)
	assert.Equal(t, "+34 600 000 000", seen[0].Phone)
}

func TestSaveOutsideEditModeFails(t *testing.T) {
	_, view, _ := newEnv(t)
	require.NoError(t, view.LoadSelf())

	_, err := view.Save(context.Background())
	assert.ErrorIs(t, err, profile.ErrNotEditing)
}

func TestOtherProfileIsReadOnly(t *testing.T) {
	sess, view, ts := newEnv(t)

	memberAPI := rest.NewClient(ts.URL + "/api")
	memberSess := session.NewManager(memberAPI, &session.MemoryStore{}, nil)
	member, err := memberSess.Register(context.Background(), "Rosa", "rosa@nosaterra.gal", "segredo1")
	require.NoError(t, err)

	require.NoError(t, view.Load(context.Background(), member.ID))
	assert.Equal(t, "Rosa", view.Record().Name)
	assert.False(t, view.Editable())
	assert.ErrorIs(t, view.BeginEdit(), profile.ErrReadOnly)
	assert.NotEqual(t, sess.UserID(), view.Record().ID)
}

func TestLoadUnknownUserSurfaces404(t *testing.T) {
	_, view, _ := newEnv(t)

	err := view.Load(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, rest.IsStatus(err, 404))
	assert.Equal(t, "User not found", rest.Detail(err, ""))
}
