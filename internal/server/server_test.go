package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := New(Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@nosaterra.gal",
		AdminPassword: "admin123",
		AdminName:     "Fran",
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	fields := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&fields)
	return resp, fields
}

func login(t *testing.T, baseURL, email, password string) (string, models.User) {
	t.Helper()
	resp, fields := doJSON(t, http.MethodPost, baseURL+"/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token string
	var user models.User
	require.NoError(t, json.Unmarshal(fields["access_token"], &token))
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	return token, user
}

func register(t *testing.T, baseURL, name, email string) (string, models.User) {
	t.Helper()
	resp, fields := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "name": name,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token string
	var user models.User
	require.NoError(t, json.Unmarshal(fields["access_token"], &token))
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	return token, user
}

func TestRegisterLoginMe(t *testing.T) {
	_, ts := newTestServer(t)

	token, user := register(t, ts.URL, "Uxía", "uxia@example.com")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleMember, user.Role)

	resp, fields := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	require.NoError(t, json.Unmarshal(fields["id"], &me.ID))
	assert.Equal(t, user.ID, me.ID)

	resp, fields = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email": "uxia@example.com", "password": "other", "name": "Dup",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Email already registered"`, string(fields["detail"]))
}

func TestLoginWrongPassword(t *testing.T) {
	_, ts := newTestServer(t)
	register(t, ts.URL, "Uxía", "uxia@example.com")

	resp, fields := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email": "uxia@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `"Invalid email or password"`, string(fields["detail"]))
}

func TestInvalidTokenRejected(t *testing.T) {
	_, ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminGating(t *testing.T) {
	_, ts := newTestServer(t)
	memberToken, _ := register(t, ts.URL, "Member", "member@example.com")

	resp, fields := doJSON(t, http.MethodPost, ts.URL+"/api/announcements", memberToken, map[string]string{
		"title": "Ensaio", "content": "Venres ás 21:00",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `"Admin access required"`, string(fields["detail"]))

	adminToken, _ := login(t, ts.URL, "admin@nosaterra.gal", "admin123")
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/announcements", adminToken, map[string]string{
		"title": "Ensaio", "content": "Venres ás 21:00",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostDeleteCascadesComments(t *testing.T) {
	srv, ts := newTestServer(t)
	token, _ := register(t, ts.URL, "Uxía", "uxia@example.com")

	resp, fields := doJSON(t, http.MethodPost, ts.URL+"/api/posts", token, map[string]string{"content": "ola"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var postID string
	require.NoError(t, json.Unmarshal(fields["id"], &postID))

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/comments", token, map[string]string{"content": "primeiro"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/posts/"+postID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Empty(t, srv.Store().Comments(postID))
	assert.Equal(t, 0, srv.Store().Counts().TotalPosts)
}

func TestDeletePostRequiresOwnerOrAdmin(t *testing.T) {
	_, ts := newTestServer(t)
	ownerToken, _ := register(t, ts.URL, "Owner", "owner@example.com")
	otherToken, _ := register(t, ts.URL, "Other", "other@example.com")

	_, fields := doJSON(t, http.MethodPost, ts.URL+"/api/posts", ownerToken, map[string]string{"content": "meu"})
	var postID string
	require.NoError(t, json.Unmarshal(fields["id"], &postID))

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/posts/"+postID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken, _ := login(t, ts.URL, "admin@nosaterra.gal", "admin123")
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/posts/"+postID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLikeToggle(t *testing.T) {
	_, ts := newTestServer(t)
	token, _ := register(t, ts.URL, "Uxía", "uxia@example.com")

	_, fields := doJSON(t, http.MethodPost, ts.URL+"/api/posts", token, map[string]string{"content": "ola"})
	var postID string
	require.NoError(t, json.Unmarshal(fields["id"], &postID))

	_, fields = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/like", token, nil)
	assert.JSONEq(t, `1`, string(fields["likes"]))
	_, fields = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/like", token, nil)
	assert.JSONEq(t, `0`, string(fields["likes"]))
}

func TestAttendanceUpsert(t *testing.T) {
	srv, ts := newTestServer(t)
	token, user := register(t, ts.URL, "Uxía", "uxia@example.com")

	start := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	_, fields := doJSON(t, http.MethodPost, ts.URL+"/api/events", token, map[string]string{
		"title": "Desfile", "location": "Praza Maior", "start_date": start, "end_date": end,
	})
	var eventID string
	require.NoError(t, json.Unmarshal(fields["id"], &eventID))

	for _, status := range []string{"maybe", "attending", "attending"} {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/attend", token, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	roster := srv.Store().Attendances(eventID)
	require.Len(t, roster, 1)
	assert.Equal(t, user.ID, roster[0].UserID)
	assert.Equal(t, models.StatusAttending, roster[0].Status)
}

func TestEventDeleteCascadesAttendances(t *testing.T) {
	srv, ts := newTestServer(t)
	adminToken, _ := login(t, ts.URL, "admin@nosaterra.gal", "admin123")

	start := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	_, fields := doJSON(t, http.MethodPost, ts.URL+"/api/events", adminToken, map[string]string{
		"title": "Desfile", "location": "Praza", "start_date": start, "end_date": end,
	})
	var eventID string
	require.NoError(t, json.Unmarshal(fields["id"], &eventID))

	doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/attend", adminToken, map[string]string{"status": "attending"})

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/events/"+eventID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, srv.Store().Attendances(eventID))
}

func TestAdminDeleteUserCascades(t *testing.T) {
	srv, ts := newTestServer(t)
	adminToken, _ := login(t, ts.URL, "admin@nosaterra.gal", "admin123")
	userToken, user := register(t, ts.URL, "Uxía", "uxia@example.com")

	doJSON(t, http.MethodPost, ts.URL+"/api/posts", userToken, map[string]string{"content": "ola"})

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/admin/users/"+user.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := srv.Store().Counts()
	assert.Equal(t, 1, stats.TotalUsers) // admin only
	assert.Equal(t, 0, stats.TotalPosts)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	_, ts := newTestServer(t)
	adminToken, adminUser := login(t, ts.URL, "admin@nosaterra.gal", "admin123")

	resp, fields := doJSON(t, http.MethodDelete, ts.URL+"/api/admin/users/"+adminUser.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Cannot delete yourself"`, string(fields["detail"]))
}

func TestProfileUpdateWritesProvidedFieldsOnly(t *testing.T) {
	_, ts := newTestServer(t)
	token, user := register(t, ts.URL, "Uxía", "uxia@example.com")

	// A provided field is written even when empty; absent fields are left
	// alone.
	resp, fields := doJSON(t, http.MethodPut, ts.URL+"/api/users/profile", token, map[string]string{
		"name": "", "bio": "Percusionista",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `""`, string(fields["name"]))

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/api/users/profile", token, map[string]string{
		"location": "Vigo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated, ok := srvUser(t, ts, token, user.ID)
	require.True(t, ok)
	assert.Equal(t, "", updated.Name)
	assert.Equal(t, "Percusionista", updated.Bio)
	assert.Equal(t, "Vigo", updated.Location)
}

func TestRoleUpdateValidation(t *testing.T) {
	_, ts := newTestServer(t)
	adminToken, _ := login(t, ts.URL, "admin@nosaterra.gal", "admin123")
	_, user := register(t, ts.URL, "Uxía", "uxia@example.com")

	url := fmt.Sprintf("%s/api/admin/users/%s/role?role=%s", ts.URL, user.ID, "president")
	resp, fields := doJSON(t, http.MethodPut, url, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Invalid role"`, string(fields["detail"]))

	url = fmt.Sprintf("%s/api/admin/users/%s/role?role=admin", ts.URL, user.ID)
	resp, _ = doJSON(t, http.MethodPut, url, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	updated, ok := srvUser(t, ts, adminToken, user.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func srvUser(t *testing.T, ts *httptest.Server, token, id string) (models.User, bool) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/users/"+id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.User{}, false
	}
	var u models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	return u, true
}
