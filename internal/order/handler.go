package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/validation"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// Service is the order behaviour exposed over HTTP.
type Service interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error)
	TransitionStatus(ctx context.Context, id, status string) (*Order, error)
	ProcessPayment(ctx context.Context, id, method string) (Receipt, error)
	ListOrders(ctx context.Context, status string) ([]Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	KitchenQueue(ctx context.Context) (KitchenQueue, error)
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
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Post("/{id}/payment", h.ProcessPayment)
	})

	r.Get("/kitchen/orders", h.KitchenOrders)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()

	log := h.log(r)

	var req PlaceOrderRequest
	if !decodePayload(w, r, log, &req) {
		return
	}

	result, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		respondErr(w, log, err, "Could not place order")
		return
	}

	if len(result.Warnings) > 0 {
		log.Info("order placed with warnings", "order_id", result.Order.ID, "warning", strings.Join(result.Warnings, "; "))
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, result)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)

	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, log, err, "Could not retrieve orders")
		return
	}

	aqm.RespondCollection(w, orders, "order")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondErr(w, log, err, "Could not retrieve order")
		return
	}

	aqm.RespondSuccess(w, o)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !decodePayload(w, r, log, &req) {
		return
	}

	if errs := ValidateStatusUpdate(ctx, req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	o, err := h.service.TransitionStatus(ctx, id, req.Status)
	if err != nil {
		respondErr(w, log, err, "Could not update order status")
		return
	}

	aqm.RespondSuccess(w, o)
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ProcessPayment")
	defer finish()

	log := h.log(r)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req PaymentRequest
	if !decodePayload(w, r, log, &req) {
		return
	}

	if errs := validation.Struct(req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	receipt, err := h.service.ProcessPayment(r.Context(), id, req.PaymentMethod)
	if err != nil {
		respondErr(w, log, err, "Could not process payment")
		return
	}

	aqm.RespondSuccess(w, receipt)
}

func (h *Handler) KitchenOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.KitchenOrders")
	defer finish()

	log := h.log(r)

	queue, err := h.service.KitchenQueue(r.Context())
	if err != nil {
		respondErr(w, log, err, "Could not retrieve kitchen orders")
		return
	}

	aqm.RespondSuccess(w, queue)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func respondErr(w http.ResponseWriter, log aqm.Logger, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		aqm.RespondError(w, status, "Order not found")
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
