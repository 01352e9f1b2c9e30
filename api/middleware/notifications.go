package middleware

import (
	"net/http"

	"github.com/skillnotes/skillnotes-backend/internal/notifications"
)

// Notifications attaches a per-request collector so handlers can return the
// messages raised by the operations they ran.
func Notifications(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notifications.WithCollector(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
