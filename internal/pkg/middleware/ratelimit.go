package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
)

// RateLimiter limita as requisições por IP dentro de uma janela fixa.
// O contador vive no cache (INCR + EXPIRE na primeira requisição da janela).
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := "rate-limit:" + clientIP(r)
			count, err := client.Incr(r.Context(), key, window)
			if err != nil {
				// Sem cache não há como contar; a requisição segue.
				log.Warn("Rate limiter indisponível", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Limite de requisições excedido.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP usa o RemoteAddr (já ajustado pelo middleware RealIP do chi, quando presente).
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
