package users

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/taskman-go/auth"
)

type handlerFixture struct {
	store   *fakeUserStore
	mailer  *fakeMailer
	user    *auth.User
	handler http.Handler
}

// newHandlerFixture mounts the profile routes with a stub middleware that
// injects the seeded user, standing in for the auth guard.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	store := newFakeUserStore()
	mailer := &fakeMailer{}
	user := seedUser(t, store)
	handlers := NewUserHandlers(NewUserService(store, mailer), zap.NewNop())

	router := chi.NewRouter()
	router.Get("/users/{id}/avatar", handlers.HandleGetAvatar())
	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := auth.NewContextWithSession(req.Context(), user, "test-token")
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Get("/users/me", handlers.HandleGetProfile())
		r.Patch("/users/me", handlers.HandleUpdateProfile())
		r.Delete("/users/me", handlers.HandleDeleteAccount())
		r.Post("/users/me/avatar", handlers.HandleSetAvatar())
		r.Delete("/users/me/avatar", handlers.HandleRemoveAvatar())
	})

	return &handlerFixture{store: store, mailer: mailer, user: user, handler: router}
}

func (f *handlerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetProfileEndpointHidesSecrets(t *testing.T) {
	fixture := newHandlerFixture(t)

	rec := fixture.do(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, fields, "avatar")
}

func TestUpdateProfileEndpoint(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{"name":"Michael","age":31}`))
	rec := fixture.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got auth.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Michael", got.Name)
	assert.Equal(t, 31, got.Age)
}

func TestUpdateProfileEndpointRejectsUnknownFields(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{"name":"Eve","id":1}`))
	rec := fixture.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The rejected update must not have touched the profile.
	unchanged, err := fixture.store.UserByID(context.Background(), fixture.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mike", unchanged.Name)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	fixture := newHandlerFixture(t)

	rec := fixture.do(httptest.NewRequest(http.MethodDelete, "/users/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := fixture.store.UserByID(context.Background(), fixture.user.ID)
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.Len(t, fixture.mailer.cancellations, 1)
}

func avatarUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAvatarEndpoints(t *testing.T) {
	fixture := newHandlerFixture(t)

	rec := fixture.do(avatarUpload(t, "photo.png", pngBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.do(httptest.NewRequest(http.MethodGet, "/users/1/avatar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 250, bounds.Dx())
	assert.Equal(t, 250, bounds.Dy())

	rec = fixture.do(httptest.NewRequest(http.MethodDelete, "/users/me/avatar", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.do(httptest.NewRequest(http.MethodGet, "/users/1/avatar", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAvatarEndpointUnknownUser(t *testing.T) {
	fixture := newHandlerFixture(t)

	for _, target := range []string{"/users/9999/avatar", "/users/abc/avatar"} {
		rec := fixture.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "target %q", target)
	}
}

func TestSetAvatarEndpointRejectsBadUpload(t *testing.T) {
	fixture := newHandlerFixture(t)

	rec := fixture.do(avatarUpload(t, "resume.pdf", pngBytes(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fixture.do(httptest.NewRequest(http.MethodPost, "/users/me/avatar", strings.NewReader("no file")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
