package account

import (
	"context"
	"strings"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/auth"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	Issue(userID, email, role, outletID string) (string, error)
}

type Service interface {
	Login(ctx context.Context, input LoginInput) (string, *User, error)

	CheckAccountStatus(ctx context.Context, outletID string) (OutletStatus, error)
	RequireActiveOutlet(ctx context.Context, outletID string) error
	GetOutlet(ctx context.Context, outletID string) (*Outlet, error)

	ListOutlets(ctx context.Context) ([]Outlet, error)
	CreateOutlet(ctx context.Context, input CreateOutletInput) (*Outlet, error)
	ActivateOutlet(ctx context.Context, outletID string, input ActivateOutletInput) (*Outlet, *Credentials, error)
	SetOutletStatus(ctx context.Context, outletID string, input SetStatusInput) (*Outlet, error)
}

type service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return "", nil, err
	}
	email := input.Email

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperror.Persistence(err)
	}
	if u == nil || !auth.CheckPasswordHash(input.Password, u.Password) {
		log.Info("login rejected", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	outletID := ""
	if u.Role == RoleOutlet {
		if u.OutletID == nil {
			return "", nil, ErrAccountDeactivated
		}
		outletID = *u.OutletID
		if err := s.RequireActiveOutlet(ctx, outletID); err != nil {
			return "", nil, err
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Email, string(u.Role), outletID)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, apperror.Persistence(err)
	}

	log.Info("login succeeded", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return token, u, nil
}

func (s *service) GetOutlet(ctx context.Context, outletID string) (*Outlet, error) {
	o, err := s.repo.GetOutlet(ctx, outletID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return o, nil
}

func (s *service) ListOutlets(ctx context.Context) ([]Outlet, error) {
	outlets, err := s.repo.ListOutlets(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return outlets, nil
}

func (s *service) CreateOutlet(ctx context.Context, input CreateOutletInput) (*Outlet, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	o := &Outlet{
		ID:     uuid.New().String(),
		Name:   strings.TrimSpace(input.Name),
		Status: StatusPending,
		Phone:  input.Phone,
	}
	if err := s.repo.CreateOutlet(ctx, o); err != nil {
		return nil, apperror.Persistence(err)
	}

	logger.FromCtx(ctx).Info("outlet created", zap.String("outlet_id", o.ID))
	return o, nil
}

// ActivateOutlet provisions an OUTLET login identity with a generated secret and
// makes the outlet ACTIVE. The plain secret is only ever returned here.
func (s *service) ActivateOutlet(ctx context.Context, outletID string, input ActivateOutletInput) (*Outlet, *Credentials, error) {
	if _, err := uuid.Parse(outletID); err != nil {
		return nil, nil, ErrOutletNotFound.With("outletId", outletID)
	}
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, nil, err
	}

	secret, err := auth.GenerateSecret()
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	hashed, err := auth.HashPassword(secret)
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}

	u := &User{
		ID:       uuid.New().String(),
		Email:    input.Email,
		Password: hashed,
		Role:     RoleOutlet,
		OutletID: &outletID,
	}

	outlet, err := s.repo.ActivateOutlet(ctx, outletID, u)
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}

	return outlet, &Credentials{Email: u.Email, Password: secret}, nil
}

// SetOutletStatus toggles ACTIVE/INACTIVE. Deactivation takes effect on the
// outlet's next request because the gate reads status live.
func (s *service) SetOutletStatus(ctx context.Context, outletID string, input SetStatusInput) (*Outlet, error) {
	if _, err := uuid.Parse(outletID); err != nil {
		return nil, ErrOutletNotFound.With("outletId", outletID)
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.Status == StatusActive {
		ok, err := s.repo.HasLoginIdentity(ctx, outletID)
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		if !ok {
			return nil, ErrNoLoginIdentity.With("outletId", outletID)
		}
	}

	o, err := s.repo.UpdateOutletStatus(ctx, outletID, input.Status)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	logger.FromCtx(ctx).Info("outlet status changed",
		zap.String("outlet_id", outletID),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
