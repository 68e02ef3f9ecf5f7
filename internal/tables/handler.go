package tables

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

const MaxBodyBytes = 1 << 20

// Service is the table behaviour the HTTP surface needs.
type Service interface {
	List(ctx context.Context) ([]Table, error)
	Get(ctx context.Context, number string) (*Table, error)
	Create(ctx context.Context, req TableCreateRequest) (*Table, error)
}

type Handler struct {
	service Service
	logger  aqm.Logger
	config  *aqm.Config
	tlm     *telemetry.HTTP
}

func NewHandler(service Service, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		service: service,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/", h.CreateTable)
		r.Get("/{number}", h.GetTable)
	})
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)

	tables, err := h.service.List(r.Context())
	if err != nil {
		log.Error("error retrieving tables", "error", err)
		aqm.RespondError(w, apperr.HTTPStatus(err), "Could not retrieve tables")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]Table, 0, len(tables))
		for _, t := range tables {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tables = filtered
	}

	aqm.RespondCollection(w, tables, "table")
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	number := chi.URLParam(r, "number")

	table, err := h.service.Get(r.Context(), number)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Table not found")
			return
		}
		log.Error("error loading table", "error", err, "number", number)
		aqm.RespondError(w, apperr.HTTPStatus(err), "Could not retrieve table")
		return
	}

	aqm.RespondSuccess(w, table)
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeTableCreatePayload(w, r, log)
	if !ok {
		return
	}

	if validationErrors := ValidateTableCreate(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, "; "))
		return
	}

	table, err := h.service.Create(ctx, req)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("cannot create table", "error", err)
			aqm.RespondError(w, status, "Could not create table")
			return
		}
		aqm.RespondError(w, status, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, table)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) decodeTableCreatePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger) (TableCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return TableCreateRequest{}, false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		aqm.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return TableCreateRequest{}, false
	}

	var req TableCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return TableCreateRequest{}, false
	}

	return req, true
}
