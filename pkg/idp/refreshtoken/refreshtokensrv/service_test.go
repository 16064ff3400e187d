package refreshtokensrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/application"
	"github.com/oidc-lite/oidc-lite/pkg/idp/auth"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken/refreshtokensrv"
	"github.com/oidc-lite/oidc-lite/pkg/idp/tenant"
	"github.com/oidc-lite/oidc-lite/pkg/idp/user"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memTokenRepo is an in-memory refreshtoken.Repository for service tests.
type memTokenRepo struct {
	tokens map[string]refreshtoken.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]refreshtoken.RefreshToken)}
}

func (r *memTokenRepo) Create(_ context.Context, token refreshtoken.RefreshToken) error {
	r.tokens[token.ID] = token
	return nil
}

func (r *memTokenRepo) FindByID(_ context.Context, id string) (*refreshtoken.RefreshToken, error) {
	t, ok := r.tokens[id]
	if !ok {
		return nil, refreshtoken.ErrNotFound()
	}
	return &t, nil
}

func (r *memTokenRepo) FindByToken(_ context.Context, tokenValue string) (*refreshtoken.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.Token == tokenValue {
			tok := t
			return &tok, nil
		}
	}
	return nil, refreshtoken.ErrNotFound()
}

func (r *memTokenRepo) FindByUserID(_ context.Context, userID kernel.UserID) ([]*refreshtoken.RefreshToken, error) {
	var out []*refreshtoken.RefreshToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			tok := t
			out = append(out, &tok)
		}
	}
	return out, nil
}

func (r *memTokenRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.tokens[id]; !ok {
		return refreshtoken.ErrNotFound()
	}
	delete(r.tokens, id)
	return nil
}

func (r *memTokenRepo) DeleteByToken(_ context.Context, tokenValue string) error {
	for id, t := range r.tokens {
		if t.Token == tokenValue {
			delete(r.tokens, id)
			return nil
		}
	}
	return refreshtoken.ErrNotFound()
}

func (r *memTokenRepo) DeleteManyByApplicationID(_ context.Context, applicationID kernel.ApplicationID) error {
	for id, t := range r.tokens {
		if t.ApplicationID == applicationID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *memTokenRepo) DeleteManyByUserID(_ context.Context, userID kernel.UserID) error {
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *memTokenRepo) DeleteManyByUserAndApplicationID(_ context.Context, userID kernel.UserID, applicationID kernel.ApplicationID) error {
	for id, t := range r.tokens {
		if t.UserID == userID && t.ApplicationID == applicationID {
			delete(r.tokens, id)
		}
	}
	return nil
}

type memTenantRepo struct {
	tenants map[kernel.TenantID]tenant.Tenant
}

func (r *memTenantRepo) FindByID(_ context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, tenant.ErrNotFound()
	}
	return &t, nil
}

type memApplicationRepo struct {
	apps map[kernel.ApplicationID]application.Application
}

func (r *memApplicationRepo) FindByID(_ context.Context, id kernel.ApplicationID) (*application.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, application.ErrNotFound()
	}
	return &a, nil
}

type memUserRepo struct {
	users map[kernel.UserID]user.User
}

func (r *memUserRepo) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound()
	}
	return &u, nil
}

// spyAuthorizer records the tenant scope of each check and fails when told to.
type spyAuthorizer struct {
	deny    error
	calls   int
	tenants []*kernel.TenantID
	routes  []string
	methods []string
}

func (a *spyAuthorizer) VerifyHeader(_ context.Context, _ map[string]string, tenantID *kernel.TenantID, routePath, httpMethod string) error {
	a.calls++
	a.tenants = append(a.tenants, tenantID)
	a.routes = append(a.routes, routePath)
	a.methods = append(a.methods, httpMethod)
	return a.deny
}

type fixture struct {
	svc   *refreshtokensrv.RefreshTokenService
	repo  *memTokenRepo
	authz *spyAuthorizer
	jwt   *auth.JWTService
}

const (
	tenantA = kernel.TenantID("tenant-a")
	appA    = kernel.ApplicationID("app-a")
	appB    = kernel.ApplicationID("app-b")
	userA   = kernel.UserID("user-a")
	userB   = kernel.UserID("user-b")
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemTokenRepo()
	authz := &spyAuthorizer{}
	jwt := auth.NewJWTService("test-secret", time.Hour, "oidc-lite-test")

	tenants := &memTenantRepo{tenants: map[kernel.TenantID]tenant.Tenant{
		tenantA: {ID: tenantA, Name: "Tenant A"},
	}}
	apps := &memApplicationRepo{apps: map[kernel.ApplicationID]application.Application{
		appA: {ID: appA, TenantID: tenantA, Name: "App A"},
		appB: {ID: appB, TenantID: tenantA, Name: "App B"},
	}}
	users := &memUserRepo{users: map[kernel.UserID]user.User{
		userA: {ID: userA, TenantID: tenantA, Email: "a@example.com"},
		userB: {ID: userB, TenantID: tenantA, Email: "b@example.com"},
	}}

	svc := refreshtokensrv.NewRefreshTokenService(repo, tenants, apps, users, jwt, authz, zap.NewNop())
	return &fixture{svc: svc, repo: repo, authz: authz, jwt: jwt}
}

func (f *fixture) seedToken(t *testing.T, id, value string, u kernel.UserID, app kernel.ApplicationID, expiry time.Time) {
	t.Helper()
	err := f.repo.Create(context.Background(), refreshtoken.RefreshToken{
		ID:            id,
		Token:         value,
		TokenHash:     refreshtoken.HashToken(value),
		ApplicationID: app,
		TenantID:      tenantA,
		UserID:        u,
		Expiry:        expiry.UnixMilli(),
		CreatedAt:     time.Now(),
		StartInstant:  time.Now().UnixMilli(),
	})
	require.NoError(t, err)
}

func TestRefresh_MintsAccessToken(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, "rt-1", "secret-1", userA, appA, time.Now().Add(time.Hour))

	res, err := f.svc.Refresh(context.Background(), "secret-1")
	require.NoError(t, err)

	assert.Equal(t, "rt-1", res.RefreshTokenID)
	require.NotEmpty(t, res.AccessToken)

	claims, err := f.jwt.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "rt-1", claims.Subject)
	assert.Equal(t, "oidc-lite-test", claims.Issuer)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Refresh(context.Background(), "never-issued")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "invalid refresh token", e.Message)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, "rt-old", "secret-old", userA, appA, time.Now().Add(-time.Minute))

	_, err := f.svc.Refresh(context.Background(), "secret-old")
	require.Error(t, err)

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "refresh token had expired", e.Message)

	// The expired record stays in the store; expiry does not delete.
	_, err = f.repo.FindByID(context.Background(), "rt-old")
	assert.NoError(t, err)
}

func TestRefresh_EmptyInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Refresh(context.Background(), "")
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, "rt-2", "secret-2", userA, appA, time.Now().Add(time.Hour))

	stored, err := f.svc.GetByID(context.Background(), "rt-2")
	require.NoError(t, err)
	assert.Equal(t, "secret-2", stored.Token)

	_, err = f.svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "refresh token is not generated", e.Message)
}

func TestGetByUserID(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, "rt-3", "secret-3", userA, appA, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-4", "secret-4", userA, appB, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-5", "secret-5", userB, appA, time.Now().Add(time.Hour))

	tokens, err := f.svc.GetByUserID(context.Background(), userA.String(), tenantA.String())
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestGetByUserID_TenantRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetByUserID(ctx, userA.String(), "")
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	_, err = f.svc.GetByUserID(ctx, userA.String(), "no-such-tenant")
	require.Error(t, err)
	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "tenant does not exist", e.Message)
}

func TestDeleteByApplicationID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedToken(t, "rt-6", "secret-6", userA, appA, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-7", "secret-7", userB, appA, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-8", "secret-8", userA, appB, time.Now().Add(time.Hour))

	err := f.svc.DeleteByApplicationID(ctx, nil, appA.String())
	require.NoError(t, err)

	// Only app-a tokens are gone; the authorization was tenant-scoped.
	assert.Len(t, f.repo.tokens, 1)
	_, err = f.repo.FindByID(ctx, "rt-8")
	assert.NoError(t, err)

	require.Equal(t, 1, f.authz.calls)
	require.NotNil(t, f.authz.tenants[0])
	assert.Equal(t, tenantA, *f.authz.tenants[0])
	assert.Equal(t, refreshtokensrv.RouteRefreshTokens, f.authz.routes[0])
	assert.Equal(t, "DELETE", f.authz.methods[0])
}

func TestDeleteByApplicationID_UnknownApplication(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, "rt-9", "secret-9", userA, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByApplicationID(context.Background(), nil, "no-such-app")
	require.Error(t, err)

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "application does not exist", e.Message)

	// Nothing deleted, no authorization attempted.
	assert.Len(t, f.repo.tokens, 1)
	assert.Zero(t, f.authz.calls)
}

func TestDeleteByUserID_UnscopedAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedToken(t, "rt-10", "secret-10", userA, appA, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-11", "secret-11", userA, appB, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-12", "secret-12", userB, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByUserID(ctx, nil, userA.String())
	require.NoError(t, err)

	assert.Len(t, f.repo.tokens, 1)
	_, err = f.repo.FindByID(ctx, "rt-12")
	assert.NoError(t, err)

	// This path authorizes without a tenant scope.
	require.Equal(t, 1, f.authz.calls)
	assert.Nil(t, f.authz.tenants[0])
}

func TestDeleteByUserID_UnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteByUserID(context.Background(), nil, "no-such-user")
	require.Error(t, err)

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "user does not exist", e.Message)
}

func TestDeleteByUserAndApplicationID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedToken(t, "rt-13", "secret-13", userA, appA, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-14", "secret-14", userA, appB, time.Now().Add(time.Hour))
	f.seedToken(t, "rt-15", "secret-15", userB, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByUserAndApplicationID(ctx, nil, userA.String(), appA.String())
	require.NoError(t, err)

	// Same user under another application and other users stay.
	assert.Len(t, f.repo.tokens, 2)
	_, err = f.repo.FindByID(ctx, "rt-14")
	assert.NoError(t, err)
	_, err = f.repo.FindByID(ctx, "rt-15")
	assert.NoError(t, err)

	require.Equal(t, 1, f.authz.calls)
	require.NotNil(t, f.authz.tenants[0])
	assert.Equal(t, tenantA, *f.authz.tenants[0])
}

func TestDeleteByTokenID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedToken(t, "rt-16", "secret-16", userA, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByTokenID(ctx, nil, "rt-16")
	require.NoError(t, err)
	assert.Empty(t, f.repo.tokens)

	// Authorization was scoped to the tenant of the token's application.
	require.Equal(t, 1, f.authz.calls)
	require.NotNil(t, f.authz.tenants[0])
	assert.Equal(t, tenantA, *f.authz.tenants[0])
}

func TestDeleteByToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedToken(t, "rt-17", "secret-17", userA, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByToken(ctx, nil, "secret-17")
	require.NoError(t, err)
	assert.Empty(t, f.repo.tokens)

	err = f.svc.DeleteByToken(ctx, nil, "secret-17")
	require.Error(t, err)
	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "refresh token does not exist", e.Message)
}

func TestDelete_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.authz.deny = errx.Unauthorized("api key does not permit this operation")
	ctx := context.Background()
	f.seedToken(t, "rt-18", "secret-18", userA, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByUserID(ctx, nil, userA.String())
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	// The denial leaves the store untouched.
	assert.Len(t, f.repo.tokens, 1)
}

func TestDelete_AuthorizerOutageIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.authz.deny = errx.Internal("store unavailable")
	f.seedToken(t, "rt-19", "secret-19", userA, appA, time.Now().Add(time.Hour))

	err := f.svc.DeleteByTokenID(context.Background(), nil, "rt-19")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	var e *errx.Error
	require.True(t, errx.As(err, &e))
	assert.Equal(t, "authorization check failed", e.Message)
}
