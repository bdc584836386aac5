// Package server exposes the simulation engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jptremblay/patrimoine/internal/config"
	"github.com/jptremblay/patrimoine/internal/simulation"
	"github.com/jptremblay/patrimoine/pkg/constants"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, maxUploadSize int64) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize}

	mux := http.NewServeMux()

	// Simulation API endpoint (YAML configuration upload)
	mux.HandleFunc("/api/simulate", h.handleSimulate)

	// Liveness endpoint
	mux.HandleFunc("/healthz", h.handleHealth)

	return mux
}

type simulateResponse struct {
	State    string        `json:"state"`
	Rows     []snapshotRow `json:"rows"`
	Warnings []string      `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration string        `json:"duration"`
}

type snapshotRow struct {
	Date     string  `json:"date"`
	CashFlow float64 `json:"cashFlow"`
	NetWorth float64 `json:"netWorth"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	conf, err := config.ParseConfiguration(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings := conf.ValidateConfiguration()

	p, err := conf.BuildPortfolio(h.logger)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := conf.StartDate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sim, err := simulation.New(h.logger, p, startDate, conf.Simulation.DurationMonths)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshots, runErr := sim.Run(r.Context())
	if runErr != nil {
		var negErr *simulation.NegativeBalanceError
		if !errors.As(runErr, &negErr) {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("simulation failed: %v", runErr))
			return
		}
	}

	elapsed := time.Since(start)

	response := simulateResponse{
		State:    sim.State().String(),
		Rows:     buildRows(snapshots),
		Warnings: warnings,
		Duration: elapsed.String(),
	}
	if runErr != nil {
		response.Error = runErr.Error()
	}

	h.logger.Info("simulation computed",
		zap.String("op", "server.handleSimulate"),
		zap.String("state", response.State),
		zap.Int("rows", len(response.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func buildRows(snapshots []simulation.Snapshot) []snapshotRow {
	rows := make([]snapshotRow, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, snapshotRow{
			Date:     datetime.FormatDate(snapshot.Date),
			CashFlow: snapshot.CashFlow.Total,
			NetWorth: snapshot.NetWorth.Total,
		})
	}
	return rows
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("simulation request failed",
		zap.String("op", "server.handleSimulate"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
