package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"gitlab.com/results-api.net/internal/adapter/crypto"
	"gitlab.com/results-api.net/internal/adapter/logging"
	"gitlab.com/results-api.net/internal/adapter/memory"
	"gitlab.com/results-api.net/internal/config"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/services/auth"
	"gitlab.com/results-api.net/internal/domain"
)

type fixture struct {
	router  *mux.Router
	handler *Handler
	store   *memory.Store
	jwt     primary.JWTService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	jwtSvc := crypto.NewJWTService(&config.JwtConfig{Secret: "auth-handler", TokenTTL: time.Minute})
	ggCfg := &config.GGAuthConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/auth/callback"}

	h := NewHandler(ggCfg, logging.NewNopLogger())
	router := mux.NewRouter()
	h.RegisterRoutes(router, &ServiceDependencies{
		GGAuthService:    auth.NewGoogleAuthService(store, jwtSvc, ggCfg),
		LocalAuthService: auth.NewLocalAuthService(store, jwtSvc),
	})
	return &fixture{router: router, handler: h, store: store, jwt: jwtSvc}
}

func (f *fixture) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func TestLocalLogin(t *testing.T) {
	f := newFixture(t)
	admin, err := auth.EnsureAdmin(context.Background(), f.store, f.jwt, "root", "pw")
	require.NoError(t, err)

	w := f.serve(httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(`{"username":"root","password":"pw"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload, err := f.jwt.ParseTokenHMAC(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, payload.Subject)
	assert.True(t, payload.Caller().IsAdmin())
}

func TestLocalLoginRejected(t *testing.T) {
	f := newFixture(t)
	_, err := auth.EnsureAdmin(context.Background(), f.store, f.jwt, "root", "pw")
	require.NoError(t, err)

	w := f.serve(httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(`{"username":"root","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.serve(httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleLoginRedirect(t *testing.T) {
	f := newFixture(t)

	w := f.serve(httptest.NewRequest(http.MethodGet, GooglePath, nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
	assert.Equal(t, "client", loc.Query().Get("client_id"))
}

func TestGoogleCallbackStateMismatch(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, CallbackPath+"?state=a&code=c", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "b"})
	assert.Equal(t, http.StatusBadRequest, f.serve(r).Code)

	r = httptest.NewRequest(http.MethodGet, CallbackPath+"?state=a", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "a"})
	assert.Equal(t, http.StatusBadRequest, f.serve(r).Code)
}

// fakeGoogle serves the token and userinfo endpoints; userInfo answers with status
// and body.
func fakeGoogle(t *testing.T, f *fixture, status int, body string) {
	t.Helper()
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(provider.Close)

	f.handler.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:   provider.URL + "/auth",
		TokenURL:  provider.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	f.handler.userInfoURL = provider.URL + "/userinfo"
}

func callback(f *fixture) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, CallbackPath+"?state=s&code=c", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "s"})
	return f.serve(r)
}

func TestGoogleCallbackCreatesUser(t *testing.T) {
	f := newFixture(t)
	fakeGoogle(t, f, http.StatusOK, `{"sub":"g-42","name":"Jane","email":"jane@example.com"}`)

	w := callback(f)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	usr, err := f.store.GetByGoogleID(context.Background(), "g-42")
	require.NoError(t, err)
	require.NotNil(t, usr)
	assert.Equal(t, "jane", usr.UserName)
	assert.True(t, usr.HasRole(domain.RoleUser))

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload, err := f.jwt.ParseTokenHMAC(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, payload.Subject)
}

func TestGoogleCallbackUserInfoRejected(t *testing.T) {
	f := newFixture(t)
	fakeGoogle(t, f, http.StatusUnauthorized, `{"error":"invalid_token"}`)

	w := callback(f)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, `{"code":502,"message":"Bad Gateway"}`+"\n", w.Body.String())
}
