package apikeysrv

import (
	"context"
	"strings"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

// HeaderKey is the request header carrying the API key secret for
// authorization checks.
const HeaderKey = "x-api-key"

// HeaderVerifier authorizes requests by the API key presented in the request
// headers: the key must grant the requested method on the requested route,
// and its tenant scope (when set) must match the tenant being acted on.
// Key-manager keys pass every check.
type HeaderVerifier struct {
	repo apikey.Repository
}

func NewHeaderVerifier(repo apikey.Repository) *HeaderVerifier {
	return &HeaderVerifier{repo: repo}
}

// VerifyHeader checks the authorization headers against the stored key. A nil
// tenantID means the check is tenant-unscoped and only the route and method
// grants apply.
func (v *HeaderVerifier) VerifyHeader(ctx context.Context, headers map[string]string, tenantID *kernel.TenantID, routePath, httpMethod string) error {
	keyValue := headerValue(headers, HeaderKey)
	if keyValue == "" {
		return errx.Unauthorized("api key header is missing")
	}

	key, err := v.repo.FindByKey(ctx, keyValue)
	if err != nil {
		return errx.Unauthorized("api key is not recognized")
	}

	if key.KeyManager {
		return nil
	}

	if tenantID != nil && key.TenantID != nil && *key.TenantID != *tenantID {
		return errx.Unauthorized("api key is not scoped to this tenant")
	}

	perms := key.Permissions()
	for _, ep := range perms.Endpoints {
		if matchRoute(ep.URL, routePath) && matchMethod(ep.Methods, httpMethod) {
			return nil
		}
	}
	return errx.Unauthorized("api key does not permit this operation")
}

func headerValue(headers map[string]string, name string) string {
	for k, val := range headers {
		if strings.EqualFold(k, name) {
			return val
		}
	}
	return ""
}

func matchRoute(pattern, route string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(route, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == route
}

func matchMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == "*" || strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
