package report

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Reporter interface {
	Sales(ctx context.Context, period string) (Sales, error)
}

type Handler struct {
	reporter Reporter
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
}

func NewHandler(reporter Reporter, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		reporter: reporter,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/sales", h.GetSales)
		r.Get("/sales.xlsx", h.ExportSales)
	})
}

func (h *Handler) GetSales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSales")
	defer finish()

	sales, err := h.reporter.Sales(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.log(r).Error("cannot build sales report", "error", err)
		aqm.RespondError(w, apperr.HTTPStatus(err), "Failed to generate sales report")
		return
	}

	aqm.RespondSuccess(w, sales)
}

func (h *Handler) ExportSales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExportSales")
	defer finish()

	log := h.log(r)

	sales, err := h.reporter.Sales(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		log.Error("cannot build sales report", "error", err)
		aqm.RespondError(w, apperr.HTTPStatus(err), "Failed to generate sales report")
		return
	}

	var buf bytes.Buffer
	if err := ExportXLSX(sales, &buf); err != nil {
		log.Error("cannot export sales report", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Failed to export sales report")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-%s.xlsx"`, sales.Period))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("cannot write sales export", "error", err)
	}
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
