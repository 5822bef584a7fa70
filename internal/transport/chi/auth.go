package chi

import (
	"net/http"

	sessionuc "github.com/cloudbill/admind/internal/usecase/session"
)

// SessionGuard returns the middleware protecting the admin subtree. The
// check runs before any handler touches the store, and it fails closed: an
// unauthorized (or undecidable) session gets a redirect to the login
// destination and no protected payload, never protected content while the
// check is unresolved.
func SessionGuard(gate *sessionuc.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.IsAuthorized(r.Context()) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
