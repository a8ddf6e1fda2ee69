// Package server exposes the settlement engine over HTTP for the dealership
// application backend.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/deal-settlement/internal/config"
	"github.com/iwvelando/deal-settlement/internal/settlement"
	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/iwvelando/deal-settlement/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	coordinator *settlement.Coordinator
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the settlement API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := constants.DefaultMaxBodySizeBytes
	engine := settlement.Config{
		PaymentEpsilon:    constants.CurrencyTolerance,
		RoundingPrecision: constants.DefaultRoundingPrecision,
	}
	if cfg != nil {
		if cfg.BodySizeBytes() > 0 {
			maxBodySize = cfg.BodySizeBytes()
		}
		engine = settlement.Config{
			HoldingCostDailyRate: cfg.Engine.HoldingCostDailyRate,
			PaymentEpsilon:       cfg.Engine.PaymentEpsilon,
			RoundingPrecision:    cfg.Engine.RoundingPrecision,
		}
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		coordinator: settlement.NewCoordinator(engine, logger),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/settle", h.handleSettle).Methods(http.MethodPost)
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	return router
}

type settleResponse struct {
	Result   *settlement.SettlementResult `json:"result"`
	CSV      string                       `json:"csv"`
	Warnings []string                     `json:"warnings,omitempty"`
	Duration string                       `json:"duration"`
}

type settleError struct {
	Error     string               `json:"error"`
	Kind      settlement.ErrorKind `json:"kind,omitempty"`
	Remaining float64              `json:"remaining,omitempty"`
}

func (h *handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	dealBytes, err := h.readDealDocument(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), requestID)
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	deal, err := config.LoadDealFromReader(bytes.NewReader(dealBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	warnings, err := deal.Validate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	inputs, err := deal.Inputs()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	result, err := h.coordinator.Settle(inputs)
	if err != nil {
		var settlementErr *settlement.SettlementError
		if errors.As(err, &settlementErr) {
			h.logger.Warn("settlement refused",
				zap.String("op", "server.handleSettle"),
				zap.String("requestId", requestID),
				zap.String("kind", string(settlementErr.Kind)),
			)
			h.writeJSON(w, http.StatusUnprocessableEntity, settleError{
				Error:     settlementErr.Error(),
				Kind:      settlementErr.Kind,
				Remaining: settlementErr.Remaining,
			})
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	elapsed := time.Since(start)

	h.logger.Info("deal settled",
		zap.String("op", "server.handleSettle"),
		zap.String("requestId", requestID),
		zap.Float64("finalCommission", result.FinalCommission),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, settleResponse{
		Result:   result,
		CSV:      output.CsvString(result),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

// readDealDocument extracts the YAML deal document from the request. JSON
// bodies are converted to YAML so both paths converge on the same loader.
// Multipart uploads carry the document in a "file" form field.
func (h *handler) readDealDocument(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing deal file")
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.readDealDocument"),
					zap.Error(closeErr),
				)
			}
		}()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			return nil, fmt.Errorf("failed to read deal file: %w", err)
		}
		return buf.Bytes(), nil

	case strings.HasPrefix(contentType, "application/json"):
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to decode deal document: %w", err)
		}
		if payload == nil {
			payload = make(map[string]interface{})
		}
		dealBytes, err := yaml.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode deal document: %w", err)
		}
		return dealBytes, nil

	default:
		dealBytes, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return dealBytes, nil
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, requestID string) {
	h.logger.Error("settle request failed",
		zap.String("op", "server.handleSettle"),
		zap.String("requestId", requestID),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, settleError{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
