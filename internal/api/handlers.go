package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/knapset/pkg/buildinfo"
	errs "github.com/matzehuels/knapset/pkg/errors"
	kio "github.com/matzehuels/knapset/pkg/io"
	"github.com/matzehuels/knapset/pkg/observability"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/solver"
	"github.com/matzehuels/knapset/pkg/store"
)

type verifyRequest struct {
	Instance json.RawMessage `json:"instance"`
	Vertices []string        `json:"vertices"`
}

type verifyResponse struct {
	Feasible bool          `json:"feasible"`
	Report   solver.Report `json:"report"`
	Reason   string        `json:"reason,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type listResponse struct {
	Runs []store.Run `json:"runs"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// handleSolve solves the instance in the request body and archives the run.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.solveOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	inst, err := kio.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if inst.Name != "" {
		if err := errs.ValidateInstanceName(inst.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	res, hit, err := s.runner.SolveWithCacheInfo(r.Context(), inst, opts)
	if err != nil && !pipeline.Partial(err) {
		s.fail(w, r, err)
		return
	}

	hash, err := pipeline.InstanceHash(inst)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	run := store.NewRun(inst.Name, hash, res)
	run.Cached = hit
	if err := s.store.Save(r.Context(), run); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("solved",
		"run", run.ID,
		"instance", inst.Name,
		"value", run.Value,
		"optimal", run.Optimal,
		"cached", hit)
	writeJSON(w, http.StatusOK, run)
}

// solveOptions applies query parameter overrides to the server defaults.
func (s *Server) solveOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = s.logger
	q := r.URL.Query()

	if v := q.Get("time_limit"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return opts, errInvalid("time_limit must be a non-negative duration, got %q", v)
		}
		opts.TimeLimit = d
	}
	if v := q.Get("max_steps"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return opts, errInvalid("max_steps must be a non-negative integer, got %q", v)
		}
		opts.MaxSteps = n
	}
	return opts, nil
}

// handleVerify checks a proposed vertex set. An infeasible set is a normal
// answer (200, feasible false); unknown or repeated vertices are a bad
// request.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Instance) == 0 {
		s.fail(w, r, errInvalid("instance is required"))
		return
	}
	inst, err := kio.ReadJSON(bytes.NewReader(req.Instance))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.runner.Verify(r.Context(), inst, req.Vertices)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, verifyResponse{Feasible: true, Report: report})
	case errs.Is(err, errs.ErrCodeInfeasible):
		writeJSON(w, http.StatusOK, verifyResponse{Report: report, Reason: errs.UserMessage(err)})
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{Instance: r.URL.Query().Get("instance")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errInvalid("limit must be a non-negative integer, got %q", v))
			return
		}
		opts.Limit = n
	}

	runs, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, listResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.fail(w, r, errs.New(errs.ErrCodeRunNotFound, "run %q not found", id))
		return
	}
	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// fail reports err to the hooks and writes it as the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	if status, _ := classify(err); status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}
