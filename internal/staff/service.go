package staff

import (
	"context"
	"strings"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/internal/validation"
	"github.com/aquamarinepk/aqm"
)

type RegisterRequest struct {
	Name  string `json:"name" validate:"required,max=80"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
	Pin   string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pin   string `json:"pin" validate:"required"`
}

type Service struct {
	staff    *kv.Collection[Staff]
	hashCost int
	logger   aqm.Logger
}

// NewService builds the staff service. hashCost zero means bcrypt.DefaultCost.
func NewService(store kv.Store, hashCost int, logger aqm.Logger) *Service {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Service{
		staff:    kv.NewCollection[Staff](store, kv.Staff),
		hashCost: hashCost,
		logger:   logger,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	if errs := validation.Struct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}
	if !validRole(req.Role) {
		return nil, apperr.Validation("role must be one of %s", strings.Join(Roles, ", "))
	}

	hash, err := HashPin(req.Pin, s.hashCost)
	if err != nil {
		return nil, apperr.Validation("cannot hash pin: %v", err)
	}

	member := Staff{
		ID:      aqm.GenerateNewID().String(),
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Role:    req.Role,
		PinHash: hash,
	}

	err = s.staff.Mutate(ctx, func(all []Staff) ([]Staff, error) {
		for _, existing := range all {
			if existing.Email == member.Email {
				return nil, apperr.Validation("email %s already registered", member.Email)
			}
		}
		return append(all, member), nil
	})
	if err != nil {
		return nil, err
	}

	profile := member.Profile()
	return &profile, nil
}

// Authenticate returns the profile of the staff member owning email and pin.
func (s *Service) Authenticate(ctx context.Context, email, pin string) (*Profile, error) {
	all, err := s.staff.Load(ctx)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	for _, member := range all {
		if member.Email != email {
			continue
		}
		if !checkPin(member.PinHash, pin) {
			break
		}
		profile := member.Profile()
		return &profile, nil
	}

	s.logger.Debug("login rejected", "email", email)
	return nil, ErrInvalidCredentials
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	all, err := s.staff.Load(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(all))
	for _, member := range all {
		profiles = append(profiles, member.Profile())
	}
	return profiles, nil
}
