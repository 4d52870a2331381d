package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/pack-mint/internal/model"
)

const APISecretHeader = "X-API-Secret"

// APISecret rejects requests whose X-API-Secret header (or ?secret= query) does not match.
// An empty secret disables the check.
func APISecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APISecretHeader)
			if got == "" {
				got = r.URL.Query().Get("secret")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Unauthorized", Code: model.ErrorCodeUnauthorized})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
