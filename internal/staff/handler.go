package staff

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

const MaxBodyBytes = 1 << 16

type Authenticator interface {
	Authenticate(ctx context.Context, email, pin string) (*Profile, error)
}

type Handler struct {
	auth   Authenticator
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(auth Authenticator, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		auth:   auth,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Login")
	defer finish()

	log := h.logger.With("request_id", r.Context().Value("request_id"))

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if errs := validation.Struct(req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	profile, err := h.auth.Authenticate(r.Context(), req.Email, req.Pin)
	if errors.Is(err, ErrInvalidCredentials) {
		aqm.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Error("authentication failed", "error", err)
		aqm.RespondError(w, apperr.HTTPStatus(err), "Authentication failed")
		return
	}

	log.Info("staff logged in", "staff_id", profile.ID, "role", profile.Role)
	aqm.RespondSuccess(w, profile)
}
