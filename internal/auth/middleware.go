package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. A package-private type prevents collisions:
// only this package can create a key of type contextKey, so only this
// package can write identity values into the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header,
// validates it, and stores the decoded Identity in the request context.
//
// STATUS CODE SPLIT:
//   - No header, or a header that isn't bearer-scheme → 401 Unauthorized
//     (the caller never presented a credential)
//   - A token that is present but invalid or expired  → 403 Forbidden
//     (the caller presented a credential and it was rejected)
//
// Every vehicle and maintenance route sits behind this gate — there is
// no anonymous read path for owned resources.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				http.Error(w, `{"message":"Authentication token required"}`, http.StatusUnauthorized)
				return
			}

			ident, err := tokens.Validate(tokenStr)
			if err != nil {
				http.Error(w, `{"message":"Invalid or expired token"}`, http.StatusForbidden)
				return
			}

			// Store the identity in context so handlers can read it
			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole is a middleware that gates a route to the given roles.
// Compose it after RequireAuth:
//
//	r.With(auth.RequireAuth(tokens), auth.RequireRole(model.RoleAdmin)).
//	    Get("/api/admin/dashboard", h.HandleDashboard)
//
// The allow-set is arbitrary — pass as many roles as the route accepts.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok {
				// RequireAuth was not applied upstream — treat as no role.
				http.Error(w, `{"message":"Forbidden: Insufficient role privileges"}`, http.StatusForbidden)
				return
			}
			if _, ok := allowed[ident.Role]; !ok {
				http.Error(w, `{"message":"Forbidden: Insufficient role privileges"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the
// request context.
//
// Returns (nil, false) if the request did not pass RequireAuth.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok && ident != nil
}

// bearerToken extracts the token from the Authorization header.
// A missing header and a malformed scheme are treated identically:
// no credential was presented.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
