package auth

import (
	"context"
	"testing"

	"russify/internal/domain"
	"russify/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == 0 {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_Success(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	svc := NewService(users, jwtSvc, nil)

	users.On("GetByPhone", mock.Anything, "+79001234567").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RolePartner &&
			u.CompanyName == nil &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(1), "partner").Return("fake-jwt-token", nil)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Name:            " Auto Center ",
		CompanyName:     strPtr("  "),
		Phone:           "+79001234567",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", res.Token)
	assert.Equal(t, "Auto Center", res.User.Name)
	users.AssertExpectations(t)
	jwtSvc.AssertExpectations(t)
}

func TestService_Register_PasswordRules(t *testing.T) {
	svc := NewService(new(mockUserRepo), new(mockJWTService), nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "A", Phone: "1", Password: "12345", PasswordConfirm: "12345",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Name: "A", Phone: "1", Password: "123456", PasswordConfirm: "1234567",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Phone: "1", Password: "123456", PasswordConfirm: "123456",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Register_DuplicatePhone(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWTService), nil)

	users.On("GetByPhone", mock.Anything, "+7").Return(&domain.User{ID: 3}, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "A", Phone: "+7", Password: "123456", PasswordConfirm: "123456",
	})
	assert.ErrorIs(t, err, ErrAccountExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	svc := NewService(users, jwtSvc, nil)

	user := &domain.User{ID: 5, Role: domain.RoleAdmin, PasswordHash: hashed(t, "letmein")}
	users.On("GetByLogin", mock.Anything, "admin@russify.local").Return(user, nil)
	users.On("GetByLogin", mock.Anything, "+70000000000").Return(nil, repository.ErrNotFound)
	jwtSvc.On("GenerateToken", int64(5), "admin").Return("tok", nil)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "admin@russify.local", Password: "letmein"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)

	_, err = svc.Login(context.Background(), LoginRequest{Login: "admin@russify.local", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+70000000000", Password: "letmein"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Password: "letmein"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResetPassword(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	svc := NewService(users, jwtSvc, nil)

	user := &domain.User{ID: 9, Phone: "+7911", Email: strPtr("Shop@Example.com"), Role: domain.RolePartner}
	users.On("GetByPhone", mock.Anything, "+7911").Return(user, nil)
	users.On("UpdatePassword", mock.Anything, int64(9), mock.AnythingOfType("string")).Return(nil).Once()
	jwtSvc.On("GenerateToken", int64(9), "partner").Return("tok", nil)

	_, err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Phone: "+7911", Email: "other@example.com", NewPassword: "newpass", PasswordConfirm: "newpass",
	})
	assert.ErrorIs(t, err, ErrResetMismatch)

	// Stored phones are trimmed, so lookups are too.
	res, err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Phone: " +7911 ", Email: "shop@example.com", NewPassword: "newpass", PasswordConfirm: "newpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	users.AssertExpectations(t)
}

func TestService_CreateAdmin(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWTService), nil)

	users.On("GetByPhone", mock.Anything, "+7000").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil)

	u, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{Name: "Ops", Phone: "+7000", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestService_Me_NotFound(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWTService), nil)
	users.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	_, err := svc.Me(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
