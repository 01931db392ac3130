// Package api serves clustering accuracy, mixing parameter and LFR parameter derivation over
// HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/accuracy"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/lfr"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AccuracyRequest scores an estimated clustering against a ground truth. Maps are keyed by
// node id in decimal form.
type AccuracyRequest struct {
	GroundTruth map[string]string `json:"ground_truth" validate:"required,min=1"`
	Estimate    map[string]string `json:"estimate" validate:"required"`
	Policy      string            `json:"policy" validate:"omitempty,oneof=singletons intersection"`
}

// AccuracyResponse is the result of an accuracy request.
type AccuracyResponse struct {
	Policy string                 `json:"policy"`
	Nodes  int                    `json:"nodes"`
	Fill   *membership.FillReport `json:"fill,omitempty"`
	Report *accuracy.Report       `json:"report"`
}

// MixingRequest asks for the mixing parameter of a clustered edge list.
type MixingRequest struct {
	Edges      [][2]int64        `json:"edges" validate:"required,min=1"`
	Membership map[string]string `json:"membership" validate:"required,min=1"`
}

// MixingResponse reports micro and macro mixing.
type MixingResponse struct {
	Micro          accuracy.Metric     `json:"micro"`
	Macro          accuracy.Metric     `json:"macro"`
	UndefinedNodes []membership.NodeID `json:"undefined_nodes"`
}

// LFRParamsRequest derives benchmark parameters from network statistics.
type LFRParamsRequest struct {
	Stats *stats.NetClusterStats `json:"stats" validate:"required"`
	CMin  int                    `json:"cmin" validate:"omitempty,gte=1"`
}

// LFRParamsResponse carries derived parameters, or Skip when no run should happen.
type LFRParamsResponse struct {
	Skip   bool        `json:"skip"`
	Params *lfr.Params `json:"params,omitempty"`
	Args   []string    `json:"args,omitempty"`
}

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	logger        zerolog.Logger
	metrics       *Metrics
	validate      *validator.Validate
	defaultPolicy membership.Policy
	clamps        lfr.Clamps
	maxBodyBytes  int64
}

// Options configures NewHandlers.
type Options struct {
	DefaultPolicy membership.Policy
	Clamps        lfr.Clamps
	MaxBodyBytes  int64
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(logger zerolog.Logger, metrics *Metrics, opts Options) *Handlers {
	if opts.DefaultPolicy == "" {
		opts.DefaultPolicy = membership.PolicySingletons
	}
	if opts.Clamps == (lfr.Clamps{}) {
		opts.Clamps = lfr.DefaultClamps()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	return &Handlers{
		logger:        logger,
		metrics:       metrics,
		validate:      validator.New(),
		defaultPolicy: opts.DefaultPolicy,
		clamps:        opts.Clamps,
		maxBodyBytes:  opts.MaxBodyBytes,
	}
}

// decode reads and validates a JSON body. It writes the error response itself and reports
// whether the handler should continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, e := range validationErrs {
				fields[e.Field()] = e.Tag()
			}
			WriteValidationErrorResponse(w, "Request validation failed", fields)
			return false
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Request validation failed", err)
		return false
	}
	return true
}

func toMembership(assignments map[string]string) (*membership.Membership, error) {
	m := membership.New()
	for key, label := range assignments {
		node, err := membership.ParseNodeID(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		if err := m.Assign(node, membership.Label(label)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ScoreAccuracy handles POST /api/v1/accuracy.
func (h *Handlers) ScoreAccuracy(w http.ResponseWriter, r *http.Request) {
	var req AccuracyRequest
	if !h.decode(w, r, &req) {
		return
	}

	policy := h.defaultPolicy
	if req.Policy != "" {
		policy = membership.Policy(req.Policy)
	}

	truth, err := toMembership(req.GroundTruth)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid ground truth", err)
		return
	}
	estimate, err := toMembership(req.Estimate)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid estimate", err)
		return
	}

	aligned, fills, err := membership.Reconcile(policy, truth, estimate)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnprocessableEntity, "Failed to reconcile memberships", err)
		return
	}

	report, err := accuracy.Score(aligned.Sequences[0], aligned.Sequences[1])
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to score clustering", err)
		return
	}

	resp := AccuracyResponse{Policy: string(policy), Nodes: len(aligned.Nodes), Report: report}
	if len(fills) > 0 {
		resp.Fill = &fills[0]
	}

	if h.metrics != nil {
		h.metrics.ComparisonsTotal.WithLabelValues(string(policy)).Inc()
		h.metrics.ComparedNodes.Observe(float64(len(aligned.Nodes)))
		for name, m := range map[string]accuracy.Metric{
			"precision": report.Precision, "recall": report.Recall, "f1": report.F1,
			"fnr": report.FNR, "fpr": report.FPR,
		} {
			if !m.Defined {
				h.metrics.UndefinedMetrics.WithLabelValues(name).Inc()
			}
		}
	}

	h.logger.Debug().
		Str("policy", string(policy)).
		Int("nodes", resp.Nodes).
		Uint64("tp", report.Tally.TP).
		Uint64("fp", report.Tally.FP).
		Msg("Scored clustering")

	WriteSuccessResponse(w, "Accuracy computed", resp)
}

// ComputeMixing handles POST /api/v1/mixing.
func (h *Handlers) ComputeMixing(w http.ResponseWriter, r *http.Request) {
	var req MixingRequest
	if !h.decode(w, r, &req) {
		return
	}

	edges := make([]network.Edge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = network.Edge{From: membership.NodeID(e[0]), To: membership.NodeID(e[1])}
	}
	g, err := network.FromEdges(edges)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid edge list", err)
		return
	}
	m, err := toMembership(req.Membership)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid membership", err)
		return
	}

	result, err := stats.Mixing(g, m)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, membership.ErrMissingAssignment) {
			status = http.StatusUnprocessableEntity
		}
		WriteErrorResponse(w, status, "Failed to compute mixing parameter", err)
		return
	}

	resp := MixingResponse{UndefinedNodes: result.UndefinedNodes}
	if resp.UndefinedNodes == nil {
		resp.UndefinedNodes = []membership.NodeID{}
	}
	if resp.Micro, err = accuracy.MetricOf(result.Micro()); err == nil {
		resp.Macro, err = accuracy.MetricOf(result.Macro())
	}
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to compute mixing parameter", err)
		return
	}

	WriteSuccessResponse(w, "Mixing parameter computed", resp)
}

// DeriveLFRParams handles POST /api/v1/lfr/params.
func (h *Handlers) DeriveLFRParams(w http.ResponseWriter, r *http.Request) {
	var req LFRParamsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.CMin == 0 {
		req.CMin = 1
	}

	params, skip, err := lfr.Derive(req.Stats, req.CMin, h.clamps)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnprocessableEntity, "Failed to derive LFR parameters", err)
		return
	}
	if skip {
		if h.metrics != nil {
			h.metrics.LFRSkipsTotal.Inc()
		}
		WriteSuccessResponse(w, fmt.Sprintf("cmin %d exceeds the largest cluster", req.CMin), LFRParamsResponse{Skip: true})
		return
	}

	WriteSuccessResponse(w, "LFR parameters derived", LFRParamsResponse{Params: &params, Args: params.Args()})
}

// HealthCheck handles GET /api/v1/health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteSuccessResponse(w, "Service is healthy", map[string]string{"status": "ok"})
}
