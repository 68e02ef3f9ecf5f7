package menu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const (
	MaxBodyBytes   = 2 << 20
	MaxImportBytes = 10 << 20
)

// Catalog is the menu behaviour the HTTP surface needs.
type Catalog interface {
	CreateItem(ctx context.Context, req ItemRequest) (*MenuItem, error)
	GetItem(ctx context.Context, id string) (*MenuItem, error)
	ListItems(ctx context.Context, category string) ([]MenuItem, error)
	UpdateItem(ctx context.Context, id string, u ItemUpdate) (*MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ImportItems(ctx context.Context, r io.Reader) (ImportResult, error)
}

// Handler handles HTTP requests for the menu.
type Handler struct {
	catalog Catalog
	logger  aqm.Logger
	config  *aqm.Config
	tlm     *telemetry.HTTP
}

func NewHandler(catalog Catalog, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		catalog: catalog,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", h.CreateMenuItem)
			r.Get("/", h.ListMenuItems)
			r.Post("/import", h.ImportMenuItems)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.UpdateMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.CreateCategory)
			r.Get("/", h.ListCategories)
		})
	})
}

// CreateMenuItem handles POST /menu/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()
	log := h.log(r)

	var req ItemRequest
	if !decodePayload(w, r, log, &req) {
		return
	}

	item, err := h.catalog.CreateItem(r.Context(), req)
	if err != nil {
		h.respondErr(w, log, err, "Could not create menu item")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item)
}

// GetMenuItem handles GET /menu/items/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()
	log := h.log(r)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		h.respondErr(w, log, err, "Could not retrieve menu item")
		return
	}

	aqm.RespondSuccess(w, item)
}

// ListMenuItems handles GET /menu/items?category=
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()
	log := h.log(r)

	items, err := h.catalog.ListItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondErr(w, log, err, "Could not retrieve menu items")
		return
	}

	aqm.RespondCollection(w, items, "menu/items")
}

// UpdateMenuItem handles PUT /menu/items/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()
	log := h.log(r)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var update ItemUpdate
	if !decodePayload(w, r, log, &update) {
		return
	}

	item, err := h.catalog.UpdateItem(r.Context(), id, update)
	if err != nil {
		h.respondErr(w, log, err, "Could not update menu item")
		return
	}

	aqm.RespondSuccess(w, item)
}

// DeleteMenuItem handles DELETE /menu/items/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()
	log := h.log(r)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.catalog.DeleteItem(r.Context(), id); err != nil {
		h.respondErr(w, log, err, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportMenuItems handles POST /menu/items/import with an xlsx workbook sent
// either as the raw body or as the "file" field of a multipart form.
func (h *Handler) ImportMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ImportMenuItems")
	defer finish()
	log := h.log(r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)
	defer r.Body.Close()

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			log.Debug("missing import file", "error", err)
			aqm.RespondError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.catalog.ImportItems(r.Context(), src)
	if err != nil {
		h.respondErr(w, log, err, "Could not import menu items")
		return
	}

	aqm.RespondSuccess(w, result)
}

// CreateCategory handles POST /menu/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCategory")
	defer finish()
	log := h.log(r)

	var req CategoryRequest
	if !decodePayload(w, r, log, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		h.respondErr(w, log, err, "Could not create category")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, category)
}

// ListCategories handles GET /menu/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()
	log := h.log(r)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondErr(w, log, err, "Could not retrieve categories")
		return
	}

	aqm.RespondCollection(w, categories, "menu/categories")
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// respondErr writes domain errors with their own message and hides the rest
// behind fallback.
func (h *Handler) respondErr(w http.ResponseWriter, log aqm.Logger, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		aqm.RespondError(w, status, "Menu item not found")
	case status >= http.StatusInternalServerError:
		log.Error(strings.ToLower(fallback), "error", err)
		aqm.RespondError(w, status, fallback)
	default:
		log.Debug("request rejected", "error", err)
		aqm.RespondError(w, status, err.Error())
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return "", false
	}
	return id, true
}

func decodePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		aqm.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}
