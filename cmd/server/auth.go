package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/webquote/internal/auth"
)

// authMiddleware requires a bearer token signed with the server secret.
// Without a configured secret every API request is rejected.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.FromHeader(r.Header.Get("Authorization"))
		if !ok {
			writeErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.Verify(s.tokenSecret, token)
		if err != nil {
			s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected token")
			writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		r.Header.Set("X-Client", claims.Client)
		next.ServeHTTP(w, r)
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Str("client", r.Header.Get("X-Client")).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
