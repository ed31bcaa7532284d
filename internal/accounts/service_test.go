package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/libreria-labs/libreria-backend/internal/identity"
	pkgauth "github.com/libreria-labs/libreria-backend/pkg/auth"
	"github.com/libreria-labs/libreria-backend/pkg/auth/session"
	"github.com/libreria-labs/libreria-backend/pkg/config"
	"github.com/libreria-labs/libreria-backend/pkg/enums"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
)

type fakeSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return "", "", session.ErrInvalidRefreshToken
	}
	next := uuid.NewString()
	return next, "refresh-" + next, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "accounts-test-secret",
		Issuer:                 "libreria",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupAccountsService(t *testing.T) (Service, *fakeSessionManager, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:accounts_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.Exec(`CREATE TABLE accounts (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		legal_name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		tax_id TEXT NOT NULL DEFAULT '',
		phone TEXT,
		role TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error
	require.NoError(t, err)

	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(gdb),
		SessionManager: sessions,
		Allocator:      identity.NewAllocator(500),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc, sessions, gdb
}

func registerTestAccount(t *testing.T, svc Service, email string) *AccountDTO {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "correct horse battery",
		LegalName: "Ada Lovelace",
		Address:   "12 Analytical Way",
		TaxID:     "ES-0001",
	})
	require.NoError(t, err)
	return account
}

func TestRegisterAssignsIdentityAndDefaults(t *testing.T) {
	svc, _, _ := setupAccountsService(t)

	account := registerTestAccount(t, svc, "Ada@Example.COM ")

	require.Equal(t, int64(501), account.ID)
	require.Equal(t, "ada@example.com", account.Email)
	require.Equal(t, enums.AccountRoleClient, account.Role)
	require.True(t, account.IsActive)

	second := registerTestAccount(t, svc, "grace@example.com")
	require.Equal(t, int64(502), second.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := setupAccountsService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		msg   string
	}{
		{
			name:  "missing email",
			input: RegisterInput{Password: "long enough pw", LegalName: "Ada"},
			msg:   "email is required",
		},
		{
			name:  "missing legal name",
			input: RegisterInput{Email: "a@b.com", Password: "long enough pw"},
			msg:   "legal name is required",
		},
		{
			name:  "short password",
			input: RegisterInput{Email: "a@b.com", Password: "short", LegalName: "Ada"},
			msg:   "password must be at least 8 characters",
		},
		{
			name:  "bogus role",
			input: RegisterInput{Email: "a@b.com", Password: "long enough pw", LegalName: "Ada", Role: "owner"},
			msg:   "invalid account role",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
			require.Equal(t, tc.msg, appErr.Message())
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setupAccountsService(t)

	registerTestAccount(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "ADA@example.com",
		Password:  "another long pw",
		LegalName: "Other Ada",
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, sessions, _ := setupAccountsService(t)
	ctx := context.Background()

	account := registerTestAccount(t, svc, "ada@example.com")

	result, err := svc.Login(ctx, LoginInput{Email: " ADA@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, account.ID, result.Account.ID)
	require.NotNil(t, result.Account.LastLoginAt)
	require.Len(t, sessions.generated, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AccountID)
	require.Equal(t, enums.AccountRoleClient, claims.Role)
	require.Equal(t, sessions.generated[0], claims.ID)
	require.Equal(t, "refresh-"+claims.ID, result.RefreshToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, gdb := setupAccountsService(t)
	ctx := context.Background()

	registerTestAccount(t, svc, "ada@example.com")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "correct horse battery"},
		{name: "wrong password", email: "ada@example.com", password: "wrong password here"},
		{name: "blank email", email: "  ", password: "correct horse battery"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginInput{Email: tc.email, Password: tc.password})
			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
			require.Equal(t, "invalid credentials", appErr.Message())
		})
	}

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, gdb.Exec(`UPDATE accounts SET is_active = 0 WHERE email = 'ada@example.com'`).Error)
		_, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct horse battery"})
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	})
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, _ := setupAccountsService(t)
	ctx := context.Background()

	account := registerTestAccount(t, svc, "ada@example.com")
	result, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, result.AccessToken, result.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AccountID)

	oldClaims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	require.NotEqual(t, oldClaims.ID, claims.ID)
}

func TestRefreshRejectsMismatchedToken(t *testing.T) {
	svc, _, _ := setupAccountsService(t)
	ctx := context.Background()

	registerTestAccount(t, svc, "ada@example.com")
	result, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, result.AccessToken, "not-the-refresh-token")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	require.Equal(t, "invalid refresh token", appErr.Message())
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	svc, _, _ := setupAccountsService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt", "refresh")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := setupAccountsService(t)
	ctx := context.Background()

	registerTestAccount(t, svc, "ada@example.com")
	result, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	require.Equal(t, []string{claims.ID}, sessions.revoked)

	err = svc.Logout(ctx, " ")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGetAccount(t *testing.T) {
	svc, _, _ := setupAccountsService(t)
	ctx := context.Background()

	created := registerTestAccount(t, svc, "ada@example.com")

	loaded, err := svc.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, loaded.Email)
	require.Equal(t, created.LegalName, loaded.LegalName)

	_, err = svc.GetAccount(ctx, 999999)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateLastLoginPersisted(t *testing.T) {
	svc, _, gdb := setupAccountsService(t)
	ctx := context.Background()

	account := registerTestAccount(t, svc, "ada@example.com")
	before := time.Now().UTC().Add(-time.Second)

	_, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	var stored struct {
		LastLoginAt *time.Time
	}
	require.NoError(t, gdb.Table("accounts").Select("last_login_at").Where("id = ?", account.ID).Scan(&stored).Error)
	require.NotNil(t, stored.LastLoginAt)
	require.True(t, stored.LastLoginAt.After(before))
}
