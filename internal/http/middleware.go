package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	buyerKey     contextKey = "buyer"
)

// Headers the UI shell uses to pass the signed-in buyer. All optional; without
// X-User-Id the request is anonymous.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderFirstName = "X-User-Firstname"
	HeaderLastName  = "X-User-Lastname"
	HeaderContact   = "X-User-Contact"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BuyerMiddleware reads the buyer identity forwarded by the UI shell.
func BuyerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buyer := domain.Buyer{
			UserID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
			Email:     strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
			FirstName: strings.TrimSpace(r.Header.Get(HeaderFirstName)),
			LastName:  strings.TrimSpace(r.Header.Get(HeaderLastName)),
			Contact:   strings.TrimSpace(r.Header.Get(HeaderContact)),
		}
		ctx := context.WithValue(r.Context(), buyerKey, buyer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", getRequestID(r.Context())))
		})
	}
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func getBuyer(ctx context.Context) domain.Buyer {
	if buyer, ok := ctx.Value(buyerKey).(domain.Buyer); ok {
		return buyer
	}
	return domain.Buyer{}
}
