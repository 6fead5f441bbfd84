package auth

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gitlab.com/results-api.net/internal/config"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/services/auth"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/handlers/response"
)

const (
	LoginPath    = "/api/v1/login"
	GooglePath   = "/auth/google"
	CallbackPath = "/auth/callback"

	stateCookie = "oauth_state"
	userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

type ServiceDependencies struct {
	GGAuthService    auth.IAuthService
	LocalAuthService auth.IAuthService
}

// GoogleUser struct to decode Google API response
type GoogleUser struct {
	ID    string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Handler struct {
	providerHandler map[domain.Provider]auth.IAuthService
	oauthConfig     *oauth2.Config
	userInfoURL     string
	logger          primary.Logger
}

func NewHandler(cfg *config.GGAuthConfig, logger primary.Logger) *Handler {
	return &Handler{
		providerHandler: make(map[domain.Provider]auth.IAuthService),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, svcDep *ServiceDependencies) {
	h.providerHandler[domain.ProviderGoogle] = svcDep.GGAuthService
	h.providerHandler[domain.ProviderLocal] = svcDep.LocalAuthService
	router.HandleFunc(LoginPath, h.LocalLoginHandler).Methods(http.MethodPost)
	router.HandleFunc(GooglePath, h.GoogleLoginHandler).Methods(http.MethodGet)
	router.HandleFunc(CallbackPath, h.GoogleCallbackHandler).Methods(http.MethodGet)
}

// LocalLoginHandler exchanges a username and password for a token
func (h *Handler) LocalLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteMessage(w, r, http.StatusBadRequest)
		return
	}

	token, err := h.providerHandler[domain.ProviderLocal].Login(r.Context(), auth.Credentials{
		UserName: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Write(w, r, http.StatusOK, domain.LoginResponse{Token: token})
}

// GoogleLoginHandler redirects user to Google OAuth2 login
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     CallbackPath,
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler handles Google OAuth2 callback
func (h *Handler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		response.WriteMessage(w, r, http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		response.WriteMessage(w, r, http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("Google code exchange failed", "error", err)
		response.WriteMessage(w, r, http.StatusUnauthorized)
		return
	}

	resp, err := h.oauthConfig.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		h.logger.Error("Failed to get Google user info", "error", err)
		response.WriteMessage(w, r, http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("Google user info rejected", "status", resp.StatusCode)
		response.WriteMessage(w, r, http.StatusBadGateway)
		return
	}

	var googleUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		h.logger.Error("Failed to decode Google user info", "error", err)
		response.WriteMessage(w, r, http.StatusBadGateway)
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderGoogle].Login(ctx, auth.Credentials{
		GoogleID: googleUser.ID,
		Email:    googleUser.Email,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Write(w, r, http.StatusOK, domain.LoginResponse{Token: tokenStr})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.StatusOf(err) == http.StatusInternalServerError {
		h.logger.Error("Login failed", "path", r.URL.Path, "error", err)
	}
	response.WriteError(w, r, err)
}
