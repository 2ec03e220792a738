package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	datasharedomain "github.com/aradsms/contacts_services/internal/datashare_service/domain"
)

// DatashareService is the part of the datashare application the HTTP layer uses.
type DatashareService interface {
	Query(ctx context.Context, uri string, columns []string, preds *datasharedomain.Predicates) (*datasharedomain.ResultSet, error)
	Insert(ctx context.Context, uri string, values datasharedomain.Values) (int64, error)
	Update(ctx context.Context, uri string, values datasharedomain.Values, preds *datasharedomain.Predicates) (int64, error)
	Delete(ctx context.Context, uri string, preds *datasharedomain.Predicates) (int64, error)
	BatchInsert(ctx context.Context, uri string, rows []datasharedomain.Values) (int64, error)
}

type DatashareHandler struct {
	datashare DatashareService
	logger    *slog.Logger
	validate  *validator.Validate
}

func NewDatashareHandler(datashare DatashareService, logger *slog.Logger, validate *validator.Validate) *DatashareHandler {
	return &DatashareHandler{
		datashare: datashare,
		logger:    logger.With("handler", "datashare"),
		validate:  validate,
	}
}

func (h *DatashareHandler) RegisterRoutes(r chi.Router) {
	r.Post("/datashare/{op}", h.Execute)
}

// Execute runs the operation named by {op}: query, insert, update, delete or batch-insert.
func (h *DatashareHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	switch op {
	case "query", "insert", "update", "delete", "batch-insert":
	default:
		respondWithError(w, http.StatusNotFound, "unknown datashare operation: "+op)
		return
	}

	var req DatashareRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	ctx := r.Context()
	preds := normalizePredicates(req.Predicates)
	var (
		resp DatashareResponse
		n    int64
		err  error
	)
	switch op {
	case "query":
		resp.Result, err = h.datashare.Query(ctx, req.URI, req.Columns, preds)
	case "insert":
		n, err = h.datashare.Insert(ctx, req.URI, normalizeValues(req.Values))
		resp.ID = &n
	case "update":
		n, err = h.datashare.Update(ctx, req.URI, normalizeValues(req.Values), preds)
		resp.Rows = &n
	case "delete":
		n, err = h.datashare.Delete(ctx, req.URI, preds)
		resp.Rows = &n
	case "batch-insert":
		rows := make([]datasharedomain.Values, len(req.Rows))
		for i, v := range req.Rows {
			rows[i] = normalizeValues(v)
		}
		n, err = h.datashare.BatchInsert(ctx, req.URI, rows)
		resp.Rows = &n
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func normalizeNumber(val any) any {
	num, ok := val.(json.Number)
	if !ok {
		return val
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

// normalizeValues turns decoded json.Number values into int64 or float64 for the driver.
func normalizeValues(v datasharedomain.Values) datasharedomain.Values {
	if v == nil {
		return nil
	}
	out := make(datasharedomain.Values, len(v))
	for k, val := range v {
		out[k] = normalizeNumber(val)
	}
	return out
}

func normalizePredicates(p *datasharedomain.Predicates) *datasharedomain.Predicates {
	if p == nil {
		return nil
	}
	out := &datasharedomain.Predicates{Operations: make([]datasharedomain.Operation, len(p.Operations))}
	for i, op := range p.Operations {
		op.Value = normalizeNumber(op.Value)
		if op.Values != nil {
			vals := make([]any, len(op.Values))
			for j, v := range op.Values {
				vals[j] = normalizeNumber(v)
			}
			op.Values = vals
		}
		out.Operations[i] = op
	}
	return out
}
