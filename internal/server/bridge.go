package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/shellauth/internal/shared"
)

// CommandStartOAuth begins an authorization flow. Its single argument is the
// identity provider's authorization endpoint URL.
const CommandStartOAuth = "startOAuth"

// Starter begins an authorization flow for an endpoint URL. Implemented by
// [flow.Coordinator].
type Starter interface {
	StartOAuth(endpoint string) error
}

// BridgeRequest is a command posted by embedded web content.
type BridgeRequest struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// BridgeResponse is the generic ok/error result for a bridge command.
//
// The response never carries a token; token delivery happens later as a
// message event posted into the web content.
type BridgeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BridgeHandler receives commands from the embedded web content and
// dispatches them to the coordinator.
// Implements the [Handler] interface for registration with a [Router].
type BridgeHandler struct {
	starter Starter
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewBridgeHandler creates a bridge handler accepting up to perSecond
// commands per second. A non-positive rate disables limiting.
func NewBridgeHandler(starter Starter, perSecond float64, logger *log.Logger) *BridgeHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}

	return &BridgeHandler{starter: starter, limiter: limiter, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *BridgeHandler) Routes() []string {
	return []string{"/bridge"}
}

// ServeHTTP decodes a [BridgeRequest] and replies with a [BridgeResponse].
func (h *BridgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respond(w, http.StatusMethodNotAllowed, shared.ErrInvalidArgument)
		return
	}

	if h.limiter != nil && !h.limiter.Allow() {
		h.respond(w, http.StatusTooManyRequests, shared.ErrRateLimited)
		return
	}

	var req BridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, shared.ErrInvalidArgument)
		return
	}

	h.logger.Info("bridge command received", "command", req.Command)

	switch req.Command {
	case CommandStartOAuth:
		if len(req.Args) == 0 || req.Args[0] == "" {
			h.respond(w, http.StatusBadRequest, shared.ErrMissingArgument)
			return
		}
		if err := h.starter.StartOAuth(req.Args[0]); err != nil {
			h.respond(w, http.StatusBadRequest, err)
			return
		}
		h.respond(w, http.StatusOK, nil)
	default:
		h.respond(w, http.StatusBadRequest, fmt.Errorf("%w: %s", shared.ErrUnknownCommand, req.Command))
	}
}

func (h *BridgeHandler) respond(w http.ResponseWriter, code int, err error) {
	resp := BridgeResponse{Status: "ok"}
	if err != nil {
		resp = BridgeResponse{Status: "error", Message: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		h.logger.Warnf("failed to write bridge response %v", encErr)
	}
}
