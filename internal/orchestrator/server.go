// Package orchestrator routes sync requests to the registered action handlers.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/metrics"
	"crm-sync/internal/common/observability"
)

const (
	actionKey       = "action"
	requestIDHeader = "X-Request-ID"
	unroutedLabel   = "unrouted"
)

// ActionHandler is implemented by every sync action.
type ActionHandler interface {
	Handle(ctx context.Context, variables map[string]interface{}) (interface{}, error)
}

type Server struct {
	handlers   map[string]ActionHandler
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
}

func NewServer(log logger.Logger, obs *observability.Observability) *Server {
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Server{
		handlers:   make(map[string]ActionHandler),
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
		obs:        obs,
	}
}

// Register binds an action name to its handler. A later registration replaces an earlier one.
func (s *Server) Register(action string, handler ActionHandler) {
	s.handlers[action] = handler
	s.logger.Info("action registered", map[string]interface{}{"action": action})
}

// Actions returns the registered action names in sorted order.
func (s *Server) Actions() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServeHTTP answers POST /api/sync. The body is a JSON object whose "action" field selects
// the handler; the remaining fields are its payload.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)

	if r.Method != http.MethodPost {
		s.fail(w, requestID, "", errors.NewMethodNotAllowedError(r.Method))
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, requestID, "", errors.NewInvalidBodyError(err))
		return
	}
	if body == nil {
		s.fail(w, requestID, "", errors.NewInvalidBodyError(fmt.Errorf("body must be a JSON object")))
		return
	}

	action, _ := body[actionKey].(string)
	handler, ok := s.handlers[action]
	if !ok {
		s.fail(w, requestID, action, errors.NewInvalidActionError(action))
		return
	}
	delete(body, actionKey)

	// Started work runs to completion even if the caller goes away.
	ctx := context.WithoutCancel(r.Context())
	s.dispatch(ctx, w, requestID, action, handler, body)
}

func (s *Server) dispatch(ctx context.Context, w http.ResponseWriter, requestID, action string, handler ActionHandler, payload map[string]interface{}) {
	startTime := time.Now()
	log := s.logger.With(map[string]interface{}{
		"requestId": requestID,
		"action":    action,
	})
	log.Debug("dispatching action", nil)

	status := http.StatusOK
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("action panicked", map[string]interface{}{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})
			status = s.errHandler.HandleRequestError(w, requestID, action,
				errors.NewInternalError(fmt.Sprintf("panic: %v", rec)), nil)
		}
		s.observe(ctx, action, status, time.Since(startTime))
	}()

	output, err := handler.Handle(ctx, payload)
	if err != nil {
		status = s.errHandler.HandleRequestError(w, requestID, action, err, output)
		return
	}

	errors.WriteJSON(w, status, output)
	log.Info("action completed", map[string]interface{}{
		"duration": time.Since(startTime).String(),
	})
}

func (s *Server) fail(w http.ResponseWriter, requestID, action string, err error) {
	status := s.errHandler.HandleRequestError(w, requestID, action, err, nil)
	metrics.ActionRequestsTotal.WithLabelValues(unroutedLabel, strconv.Itoa(status)).Inc()
}

func (s *Server) observe(ctx context.Context, action string, status int, elapsed time.Duration) {
	metrics.ActionRequestsTotal.WithLabelValues(action, strconv.Itoa(status)).Inc()
	metrics.ActionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	s.obs.RecordActionProcessed(ctx, action, status)
	s.obs.RecordActionDuration(ctx, action, elapsed)
}

// Routes mounts the sync endpoint next to the probes and the Prometheus handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/sync", s)
	mux.HandleFunc("/health", probe("healthy"))
	mux.HandleFunc("/ready", probe("ready"))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func probe(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
