package formapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-blueprint/pkg/projection"
	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

// HTTPError lets guard implementations choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a minimal HTTPError implementation.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error string `json:"error"`
}

type validateRequest struct {
	Field   string        `json:"field"`
	Value   any           `json:"value"`
	Context rules.Context `json:"context"`
}

type handler struct {
	opts Options
}

func (h *handler) guard(w http.ResponseWriter, r *http.Request) bool {
	if h.opts.Guard == nil {
		return true
	}
	err := h.opts.Guard(r)
	if err == nil {
		return true
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
		code = httpErr.StatusCode()
	}
	writeError(w, code, http.StatusText(code))
	return false
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	if h.opts.Projection == nil {
		writeError(w, http.StatusInternalServerError, "projection is not configured")
		return
	}

	query := r.URL.Query()
	filter := projection.ListFilter{
		Status:        statusList(query["status"]),
		Persona:       multiValue(query["persona"]),
		Limit:         clampLimit(parseInt(query.Get("limit")), h.opts),
		IncludeSteps:  parseBool(query.Get("includeSteps"), true),
		IncludeFields: parseBool(query.Get("includeFields"), true),
	}

	list, err := h.opts.Projection.List(r.Context(), filter)
	if err != nil {
		h.opts.Logger.Error("list blueprints", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list blueprints")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	if h.opts.Projection == nil {
		writeError(w, http.StatusInternalServerError, "projection is not configured")
		return
	}

	key := r.PathValue("key")
	query := r.URL.Query()
	opts := projection.GetOptions{
		IncludeSteps:  parseBool(query.Get("includeSteps"), true),
		IncludeFields: parseBool(query.Get("includeFields"), true),
		Status:        schema.Status(query.Get("status")),
	}

	bp, err := h.opts.Projection.ByKey(r.Context(), key, opts)
	if err != nil {
		h.opts.Logger.Error("get blueprint", zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load blueprint")
		return
	}
	if bp == nil {
		writeError(w, http.StatusNotFound, "blueprint not found")
		return
	}
	writeJSON(w, http.StatusOK, bp)
}

func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	if h.opts.Evaluator == nil {
		writeError(w, http.StatusInternalServerError, "evaluator is not configured")
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	key := r.PathValue("key")
	verdict, err := h.opts.Evaluator.EvaluateField(r.Context(), key, req.Field, req.Value, req.Context)
	if err != nil {
		var lookupErr *rules.LookupError
		switch {
		case errors.Is(err, rules.ErrBlueprintNotFound):
			writeError(w, http.StatusNotFound, "blueprint not found")
		case errors.As(err, &lookupErr):
			h.opts.Logger.Error("remote lookup failed",
				zap.String("key", key),
				zap.String("rule", lookupErr.RuleType),
				zap.Error(lookupErr.Err))
			writeError(w, http.StatusBadGateway, "remote lookup failed, retry the request")
		default:
			h.opts.Logger.Error("validate field", zap.String("key", key), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to validate field")
		}
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func parseBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

// multiValue splits repeated query parameters that may also carry
// comma-separated lists.
func multiValue(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func statusList(raw []string) []schema.Status {
	values := multiValue(raw)
	if len(values) == 0 {
		return nil
	}
	out := make([]schema.Status, 0, len(values))
	for _, v := range values {
		out = append(out, schema.Status(v))
	}
	return out
}
