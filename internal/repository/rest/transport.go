package rest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// HeaderRequestID correlates client logs with provider-side logs.
const HeaderRequestID = "X-Request-ID"

// LoggingTransport logs one line per request: metadata only, never bodies.
func LoggingTransport(log *zap.Logger, next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)

		var code int
		if resp != nil {
			code = resp.StatusCode
		}
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", code),
			zap.Duration("dur", time.Since(start)),
			zap.String("request_id", req.Header.Get(HeaderRequestID)),
		}
		if err != nil {
			log.Warn("http", append(fields, zap.Error(err))...)
		} else {
			log.Debug("http", fields...)
		}
		return resp, err
	})
}

// RequestIDTransport stamps each request with a fresh UUIDv4 unless one is set.
func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(HeaderRequestID) == "" {
			id, err := uuid.NewV4()
			if err != nil {
				return nil, err
			}
			req = req.Clone(req.Context())
			req.Header.Set(HeaderRequestID, id.String())
		}
		return next.RoundTrip(req)
	})
}

// RecoverTransport converts a panic in next into an error.
func RecoverTransport(log *zap.Logger, next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (resp *http.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", req.URL.Path),
				)
				resp, err = nil, fmt.Errorf("transport panic: %v", r)
			}
		}()
		return next.RoundTrip(req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
