package account

import (
	"context"
	"errors"
	"testing"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetOutlet(ctx context.Context, outletID string) (*Outlet, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Outlet), args.Error(1)
}

func (m *MockRepository) GetOutletStatus(ctx context.Context, outletID string) (OutletStatus, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).(OutletStatus), args.Error(1)
}

func (m *MockRepository) ListOutlets(ctx context.Context) ([]Outlet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Outlet), args.Error(1)
}

func (m *MockRepository) CreateOutlet(ctx context.Context, o *Outlet) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) ActivateOutlet(ctx context.Context, outletID string, u *User) (*Outlet, error) {
	args := m.Called(ctx, outletID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Outlet), args.Error(1)
}

func (m *MockRepository) UpdateOutletStatus(ctx context.Context, outletID string, status OutletStatus) (*Outlet, error) {
	args := m.Called(ctx, outletID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Outlet), args.Error(1)
}

func (m *MockRepository) HasLoginIdentity(ctx context.Context, outletID string) (bool, error) {
	args := m.Called(ctx, outletID)
	return args.Bool(0), args.Error(1)
}

type stubIssuer struct {
	outletID string
}

func (s *stubIssuer) Issue(userID, email, role, outletID string) (string, error) {
	s.outletID = outletID
	return "token-" + userID, nil
}

func hashed(t *testing.T, secret string) string {
	h, err := auth.HashPassword(secret)
	require.NoError(t, err)
	return h
}

const testOutletID = "5b0e6c1a-0000-4000-8000-000000000001"

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	outletID := testOutletID
	hash := hashed(t, "s3cret")

	outletUser := func() *User {
		return &User{ID: "u-1", Email: "shop@example.com", Password: hash, Role: RoleOutlet, OutletID: &outletID}
	}

	t.Run("ActiveOutlet", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "shop@example.com").Return(outletUser(), nil)
		repo.On("GetOutletStatus", ctx, testOutletID).Return(StatusActive, nil)
		issuer := &stubIssuer{}

		token, u, err := NewService(repo, issuer).Login(ctx, LoginInput{Email: " Shop@Example.com ", Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, "token-u-1", token)
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, testOutletID, issuer.outletID)
	})

	t.Run("PendingOutlet", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "shop@example.com").Return(outletUser(), nil)
		repo.On("GetOutletStatus", ctx, testOutletID).Return(StatusPending, nil)

		_, _, err := NewService(repo, &stubIssuer{}).Login(ctx, LoginInput{Email: "shop@example.com", Password: "s3cret"})
		assert.ErrorIs(t, err, ErrAccountPending)
	})

	t.Run("InactiveOutlet", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "shop@example.com").Return(outletUser(), nil)
		repo.On("GetOutletStatus", ctx, testOutletID).Return(StatusInactive, nil)

		_, _, err := NewService(repo, &stubIssuer{}).Login(ctx, LoginInput{Email: "shop@example.com", Password: "s3cret"})
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "shop@example.com").Return(outletUser(), nil)

		_, _, err := NewService(repo, &stubIssuer{}).Login(ctx, LoginInput{Email: "shop@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "GetOutletStatus", mock.Anything, mock.Anything)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

		_, _, err := NewService(repo, &stubIssuer{}).Login(ctx, LoginInput{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("DistributorSkipsGate", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "dist@example.com").
			Return(&User{ID: "u-2", Email: "dist@example.com", Password: hash, Role: RoleDistributor}, nil)
		issuer := &stubIssuer{}

		_, _, err := NewService(repo, issuer).Login(ctx, LoginInput{Email: "dist@example.com", Password: "s3cret"})
		require.NoError(t, err)
		assert.Empty(t, issuer.outletID)
		repo.AssertNotCalled(t, "GetOutletStatus", mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		_, _, err := NewService(new(MockRepository), &stubIssuer{}).Login(ctx, LoginInput{Email: "not-an-email"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestService_RequireActiveOutlet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		status  OutletStatus
		repoErr error
		want    error
	}{
		{name: "Active", status: StatusActive},
		{name: "Pending", status: StatusPending, want: ErrAccountPending},
		{name: "Inactive", status: StatusInactive, want: ErrAccountDeactivated},
		{name: "Missing outlet fails closed", status: "", repoErr: ErrOutletNotFound, want: ErrAccountDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetOutletStatus", ctx, testOutletID).Return(tt.status, tt.repoErr)

			err := NewService(repo, &stubIssuer{}).RequireActiveOutlet(ctx, testOutletID)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("StorageFault", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOutletStatus", ctx, testOutletID).Return(OutletStatus(""), errors.New("db down"))

		err := NewService(repo, &stubIssuer{}).RequireActiveOutlet(ctx, testOutletID)
		assert.True(t, apperror.Is(err, apperror.KindPersistence))
	})

	t.Run("NoOutletIdentity", func(t *testing.T) {
		err := NewService(new(MockRepository), &stubIssuer{}).RequireActiveOutlet(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_CheckAccountStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetOutletStatus", ctx, testOutletID).Return(StatusPending, nil)

	status, err := NewService(repo, &stubIssuer{}).CheckAccountStatus(ctx, testOutletID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
}

func TestService_CreateOutlet(t *testing.T) {
	ctx := context.Background()

	t.Run("StartsPending", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateOutlet", ctx, mock.MatchedBy(func(o *Outlet) bool {
			return o.ID != "" && o.Status == StatusPending && o.Name == "Corner Shop"
		})).Return(nil)

		o, err := NewService(repo, &stubIssuer{}).CreateOutlet(ctx, CreateOutletInput{Name: " Corner Shop "})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
		repo.AssertExpectations(t)
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := NewService(new(MockRepository), &stubIssuer{}).CreateOutlet(ctx, CreateOutletInput{})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestService_ActivateOutlet(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsOneTimeSecret", func(t *testing.T) {
		repo := new(MockRepository)
		var stored *User
		repo.On("ActivateOutlet", ctx, testOutletID, mock.AnythingOfType("*account.User")).
			Run(func(args mock.Arguments) { stored = args.Get(2).(*User) }).
			Return(&Outlet{ID: testOutletID, Status: StatusActive}, nil)

		outlet, creds, err := NewService(repo, &stubIssuer{}).ActivateOutlet(ctx, testOutletID, ActivateOutletInput{Email: " Shop@Example.com "})
		require.NoError(t, err)
		assert.Equal(t, StatusActive, outlet.Status)
		assert.Equal(t, "shop@example.com", creds.Email)
		assert.Len(t, creds.Password, 16)

		require.NotNil(t, stored)
		assert.Equal(t, RoleOutlet, stored.Role)
		assert.NotEqual(t, creds.Password, stored.Password)
		assert.True(t, auth.CheckPasswordHash(creds.Password, stored.Password))
	})

	t.Run("EmailTaken", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ActivateOutlet", ctx, testOutletID, mock.Anything).Return(nil, ErrEmailExists)

		_, _, err := NewService(repo, &stubIssuer{}).ActivateOutlet(ctx, testOutletID, ActivateOutletInput{Email: "shop@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("MalformedOutletID", func(t *testing.T) {
		repo := new(MockRepository)

		_, _, err := NewService(repo, &stubIssuer{}).ActivateOutlet(ctx, "o-1", ActivateOutletInput{Email: "shop@example.com"})
		assert.ErrorIs(t, err, ErrOutletNotFound)
		repo.AssertNotCalled(t, "ActivateOutlet", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_SetOutletStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Deactivate", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateOutletStatus", ctx, testOutletID, StatusInactive).
			Return(&Outlet{ID: testOutletID, Status: StatusInactive}, nil)

		o, err := NewService(repo, &stubIssuer{}).SetOutletStatus(ctx, testOutletID, SetStatusInput{Status: StatusInactive})
		require.NoError(t, err)
		assert.Equal(t, StatusInactive, o.Status)
		repo.AssertNotCalled(t, "HasLoginIdentity", mock.Anything, mock.Anything)
	})

	t.Run("ReactivateRequiresIdentity", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("HasLoginIdentity", ctx, testOutletID).Return(false, nil)

		_, err := NewService(repo, &stubIssuer{}).SetOutletStatus(ctx, testOutletID, SetStatusInput{Status: StatusActive})
		assert.ErrorIs(t, err, ErrNoLoginIdentity)
		repo.AssertNotCalled(t, "UpdateOutletStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reactivate", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("HasLoginIdentity", ctx, testOutletID).Return(true, nil)
		repo.On("UpdateOutletStatus", ctx, testOutletID, StatusActive).
			Return(&Outlet{ID: testOutletID, Status: StatusActive}, nil)

		o, err := NewService(repo, &stubIssuer{}).SetOutletStatus(ctx, testOutletID, SetStatusInput{Status: StatusActive})
		require.NoError(t, err)
		assert.Equal(t, StatusActive, o.Status)
	})

	t.Run("MalformedOutletID", func(t *testing.T) {
		_, err := NewService(new(MockRepository), &stubIssuer{}).SetOutletStatus(ctx, "o-1", SetStatusInput{Status: StatusInactive})
		assert.ErrorIs(t, err, ErrOutletNotFound)
	})

	t.Run("PendingNotAllowed", func(t *testing.T) {
		_, err := NewService(new(MockRepository), &stubIssuer{}).SetOutletStatus(ctx, testOutletID, SetStatusInput{Status: StatusPending})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}
