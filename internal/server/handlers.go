package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/logging"
	"github.com/agbru/fibmatrix/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultAlgorithm is used when the algo query parameter is absent.
const DefaultAlgorithm = "hybrid"

// CalculationResponse is the body of a successful /fibonacci request.
// Result is a decimal string so that clients without big integers can read
// it.
type CalculationResponse struct {
	// N is the index actually computed, after clamping negatives to 0.
	N         uint64 `json:"n"`
	Algorithm string `json:"algorithm"`
	Result    string `json:"result"`
	Digits    int    `json:"digits"`
	Duration  string `json:"duration"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"algorithms": s.service.Algorithms(),
		"default":    DefaultAlgorithm,
	})
}

// handleFibonacci computes F(n) with the requested algorithm.
func (s *Server) handleFibonacci(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, algo, err := parseFibonacciParams(r)
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.Calculate(ctx, algo, n)
	duration := time.Since(start)
	if err != nil {
		s.writeCalculationError(w, r, algo, n, err)
		return
	}

	digits := result.String()
	s.writeJSONResponse(w, http.StatusOK, CalculationResponse{
		N:         n,
		Algorithm: algo,
		Result:    digits,
		Digits:    len(digits),
		Duration:  duration.String(),
	})
}

// writeCalculationError maps a service error to a status code: 400 for
// invalid input, 504 when the request timeout expired, 503 when the client
// went away and 500 otherwise.
func (s *Server) writeCalculationError(w http.ResponseWriter, r *http.Request, algo string, n uint64, err error) {
	switch {
	case errors.Is(err, service.ErrMaxValueExceeded):
		s.writeErrorResponse(w, r, http.StatusBadRequest,
			apperrors.NewValidationError("n", fmt.Sprintf("exceeds the maximum allowed value %d", s.service.MaxN()), n).Error())
		return
	case errors.Is(err, fibonacci.ErrUnknownAlgorithm):
		s.writeErrorResponse(w, r, http.StatusBadRequest,
			apperrors.NewValidationError("algo", fmt.Sprintf("unknown algorithm %q, expected one of [%s]", algo, strings.Join(s.service.Algorithms(), ", ")), algo).Error())
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	s.logger.Error("calculation failed", err,
		logging.String("request_id", requestID(r)),
		logging.String("algorithm", algo),
		logging.Uint64("n", n),
	)
	s.writeErrorResponse(w, r, status, apperrors.NewCalculationError(algo, n, err).Error())
}

// parseFibonacciParams reads n and algo from the query string. Negative n
// is clamped to 0.
func parseFibonacciParams(r *http.Request) (uint64, string, error) {
	q := r.URL.Query()
	nStr := q.Get("n")
	if nStr == "" {
		return 0, "", apperrors.NewValidationError("n", "missing parameter", nil)
	}
	raw, err := strconv.ParseInt(nStr, 10, 64)
	if err != nil {
		return 0, "", apperrors.NewValidationError("n", "must be an integer", nStr)
	}

	algo := strings.ToLower(strings.TrimSpace(q.Get("algo")))
	if algo == "" {
		algo = DefaultAlgorithm
	}
	return uint64(max(raw, 0)), algo, nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding JSON response", logging.Err(err))
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		RequestID: requestID(r),
	})
}
