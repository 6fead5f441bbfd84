package results

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/services/result"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/handlers"
	"gitlab.com/results-api.net/internal/handlers/response"
)

const RutaAPI = "/api/v1/results"

// StatusUpdated is what a successful update answers with.
const StatusUpdated = 209

var _ result.IResultService = &result.ResultService{}

type ApiHandler struct {
	resultService result.IResultService
	middleware    *handlers.MiddlewareProvider
	logger        primary.Logger
}

func NewHandler(resultService result.IResultService, middleware *handlers.MiddlewareProvider, logger primary.Logger) *ApiHandler {
	return &ApiHandler{
		resultService: resultService,
		middleware:    middleware,
		logger:        logger,
	}
}

// RegisterRoutes mounts the collection and item routes, each with and without a
// .{format} suffix. OPTIONS is the only unauthenticated verb.
func (api *ApiHandler) RegisterRoutes(r *mux.Router) {
	collection := []string{RutaAPI, RutaAPI + ".{format:[a-zA-Z]+}"}
	item := []string{RutaAPI + "/{id:[0-9]+}", RutaAPI + "/{id:[0-9]+}.{format:[a-zA-Z]+}"}

	for _, path := range collection {
		r.Handle(path, api.secured(api.List)).Methods(http.MethodGet)
		r.Handle(path, api.secured(api.Create)).Methods(http.MethodPost)
		r.HandleFunc(path, api.Options).Methods(http.MethodOptions)
	}
	for _, path := range item {
		r.Handle(path, api.secured(api.Get)).Methods(http.MethodGet)
		r.Handle(path, api.secured(api.Update)).Methods(http.MethodPut)
		r.Handle(path, api.secured(api.Delete)).Methods(http.MethodDelete)
		r.HandleFunc(path, api.Options).Methods(http.MethodOptions)
	}
}

func (api *ApiHandler) secured(fn http.HandlerFunc) http.Handler {
	return api.middleware.RequireCaller(fn)
}

// List handles GET /results
func (api *ApiHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := api.resultService.List(r.Context(), handlers.CallerFromContext(r.Context()))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	response.Write(w, r, http.StatusOK, &domain.ResultList{Results: results})
}

// Get handles GET /results/{id}
func (api *ApiHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := api.resultID(w, r)
	if !ok {
		return
	}
	res, err := api.resultService.Get(r.Context(), handlers.CallerFromContext(r.Context()), id)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	response.Write(w, r, http.StatusOK, res)
}

// Create handles POST /results. An unreadable body counts as missing fields.
func (api *ApiHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in result.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.logger.Debug("Unreadable create payload", "error", err)
		in = result.CreateInput{}
	}

	res, err := api.resultService.Create(r.Context(), handlers.CallerFromContext(r.Context()), in)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("%s/%d", RutaAPI, res.ID))
	response.Write(w, r, http.StatusCreated, res)
}

// Update handles PUT /results/{id}. An unreadable body updates nothing.
func (api *ApiHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := api.resultID(w, r)
	if !ok {
		return
	}
	var in result.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.logger.Debug("Unreadable update payload", "error", err)
		in = result.UpdateInput{}
	}

	res, err := api.resultService.Update(r.Context(), handlers.CallerFromContext(r.Context()), id, in)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	response.Write(w, r, StatusUpdated, res)
}

// Delete handles DELETE /results/{id}
func (api *ApiHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.resultID(w, r)
	if !ok {
		return
	}
	if err := api.resultService.Delete(r.Context(), handlers.CallerFromContext(r.Context()), id); err != nil {
		api.fail(w, r, err)
		return
	}
	response.Write(w, r, http.StatusNoContent, nil)
}

// Options handles OPTIONS on both the collection and a single result
func (api *ApiHandler) Options(w http.ResponseWriter, r *http.Request) {
	_, hasID := mux.Vars(r)["id"]
	w.Header().Set("Allow", strings.Join(api.resultService.Options(hasID), ", "))
	response.Write(w, r, http.StatusOK, nil)
}

func (api *ApiHandler) resultID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.WriteMessage(w, r, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (api *ApiHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.StatusOf(err) == http.StatusInternalServerError {
		api.logger.Error("Results request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	response.WriteError(w, r, err)
}
