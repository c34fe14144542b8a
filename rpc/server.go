package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/observability"
)

const (
	jsonRPCVersion    = "2.0"
	maxRequestBytes   = 1 << 20 // 1 MiB
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	requestIDHeader   = "X-Request-ID"
)

// EventArchive serves historical events for a booking.
type EventArchive interface {
	ByBooking(ctx context.Context, bookingID uint64) ([]types.Event, error)
}

// Config wires the optional collaborators of a Server.
type Config struct {
	JWTSecret          string
	RateLimitPerMinute int
	Archive            EventArchive
	Logger             *slog.Logger
	Metrics            *observability.RPCMetrics
}

type handlerFunc func(ctx context.Context, caller [20]byte, params json.RawMessage) (interface{}, error)

type method struct {
	// mutating methods require an authenticated caller.
	mutating bool
	handle   handlerFunc
}

type Server struct {
	node    *core.Node
	auth    *authenticator
	limiter *rateLimiter
	archive EventArchive
	logger  *slog.Logger
	metrics *observability.RPCMetrics
	methods map[string]method
}

func NewServer(node *core.Node, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		node:    node,
		auth:    &authenticator{secret: []byte(strings.TrimSpace(cfg.JWTSecret)), clockSkew: 30 * time.Second},
		limiter: newRateLimiter(cfg.RateLimitPerMinute),
		archive: cfg.Archive,
		logger:  logger,
		metrics: cfg.Metrics,
	}
	s.methods = s.routes()
	return s
}

// Handler returns the instrumented HTTP surface of the node.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/rpc", s.handleRPC)
	r.Get("/ws/events", s.handleEventsWS)
	r.Get("/bookings/{id}/events", s.handleBookingEvents)
	return otelhttp.NewHandler(r, "carehours-rpc")
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rpc listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, status int, id interface{}, rpcErr *RPCError) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: rpcErr}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, &RPCError{Code: codeInvalidRequest, Message: message})
		return
	}
	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, &RPCError{Code: codeParseError, Message: "invalid JSON payload", Data: err.Error()})
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, &RPCError{Code: codeInvalidRequest, Message: "unsupported jsonrpc version"})
		return
	}

	caller, authErr := s.auth.callerFromRequest(r)
	source := clientSource(r)
	if authErr == nil {
		source = crypto.FormatAccount(caller)
	}
	if !s.limiter.allow(source) {
		s.metrics.RecordThrottle("rate_limit")
		writeError(w, http.StatusTooManyRequests, req.ID, &RPCError{Code: codeRateLimited, Message: "rate limit exceeded"})
		return
	}

	m, ok := s.methods[req.Method]
	if !ok {
		s.finish(w, r, req, start, nil, &RPCError{Code: codeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)})
		return
	}
	if m.mutating && authErr != nil {
		s.metrics.RecordThrottle("unauthenticated")
		rpcErr := &RPCError{Code: codeUnauthorized, Message: "authentication required", Data: ErrorData{Kind: "Unauthorized"}}
		if !errors.Is(authErr, errMissingToken) {
			rpcErr.Message = "invalid bearer token"
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: req.ID, Error: rpcErr})
		s.observe(r, req.Method, rpcErr.Code, start, rpcErr.Message)
		return
	}
	ctx := r.Context()
	if authErr == nil {
		ctx = withCaller(ctx, caller)
	}
	result, err := m.handle(ctx, caller, req.Params)
	s.finish(w, r, req, start, result, err)
}

func (s *Server) finish(w http.ResponseWriter, r *http.Request, req *RPCRequest, start time.Time, result interface{}, err error) {
	if err != nil {
		rpcErr, status := toRPCError(err)
		writeError(w, status, req.ID, rpcErr)
		s.observe(r, req.Method, rpcErr.Code, start, err.Error())
		return
	}
	writeResult(w, req.ID, result)
	s.observe(r, req.Method, 0, start, "")
}

func (s *Server) observe(r *http.Request, method string, code int, start time.Time, failure string) {
	elapsed := time.Since(start)
	s.metrics.Observe(method, code, elapsed)
	attrs := []any{
		"request_id", RequestIDFromContext(r.Context()),
		"method", method,
		"code", code,
		"duration", elapsed,
	}
	if failure != "" {
		s.logger.Info("rpc request failed", append(attrs, "error", failure)...)
		return
	}
	s.logger.Debug("rpc request served", attrs...)
}

// decodeParams accepts either a params object or a single-element array
// wrapping it. Empty params leave out untouched.
func decodeParams(raw json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return invalidParams("params must be an object")
		}
		switch len(list) {
		case 0:
			return nil
		case 1:
			trimmed = bytes.TrimSpace(list[0])
		default:
			return invalidParams("params must contain a single object")
		}
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return invalidParams(fmt.Sprintf("invalid params: %v", err))
	}
	return nil
}

func parseAccountParam(field, value string) ([20]byte, error) {
	account, err := crypto.ParseAccount(strings.TrimSpace(value))
	if err != nil {
		return [20]byte{}, invalidParams(fmt.Sprintf("%s: %v", field, err))
	}
	return account, nil
}
