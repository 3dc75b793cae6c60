package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leapstack-labs/leapcheck/internal/history"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/leapstack-labs/leapcheck/pkg/validate"
)

// RunIDHeader carries the id of the validation run in responses.
const RunIDHeader = "X-Run-ID"

// SchemaSummary describes one schema in the listing.
type SchemaSummary struct {
	DatasetID   string   `json:"dataset_id"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
	PrimaryKey  []string `json:"primary_key,omitempty"`
}

// SchemaError is a schema file that failed to load.
type SchemaError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type schemaList struct {
	Schemas []SchemaSummary `json:"schemas"`
	Errors  []SchemaError   `json:"errors,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSchemas(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.resolver.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := schemaList{Schemas: []SchemaSummary{}}
	for _, e := range entries {
		if e.Err != nil {
			out.Errors = append(out.Errors, SchemaError{Path: e.Path, Error: e.Err.Error()})
			continue
		}
		out.Schemas = append(out.Schemas, SchemaSummary{
			DatasetID:   e.Schema.DatasetID,
			Version:     e.Schema.Version,
			Description: e.Schema.Description,
			Fields:      e.Schema.FieldNames(),
			PrimaryKey:  e.Schema.PrimaryKey,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "datasetID")
	sc, _, err := s.resolver.Resolve("", datasetID)
	if errors.Is(err, schema.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	failFast, err := queryBool(r, "fail_fast")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	strict, err := queryBool(r, "strict")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	v, err := validate.New(sc,
		validate.WithFailFast(failFast),
		validate.WithStrict(strict),
		validate.WithClock(s.now),
		validate.WithLogger(s.logger),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	name := r.Header.Get("X-Filename")
	if name == "" {
		name = datasetID + ".csv"
	}
	body := &limitedBody{r: http.MaxBytesReader(w, r.Body, MaxBodyBytes)}
	started := s.now()
	if _, err := v.ValidateReader(r.Context(), name, body); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if body.tooLarge {
		writeError(w, http.StatusRequestEntityTooLarge,
			errors.New("request body exceeds "+strconv.Itoa(MaxBodyBytes)+" bytes"))
		return
	}

	report := v.Report()
	payload, err := json.Marshal(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	runID := uuid.New().String()
	if s.store != nil {
		run, err := s.store.RecordRun(r.Context(), history.Run{
			ID:            runID,
			DatasetID:     sc.DatasetID,
			SchemaVersion: sc.Version,
			Input:         name,
			Status:        report.Status,
			ErrorCount:    report.ErrorCount,
			WarningCount:  report.WarningCount,
			StartedAt:     started,
			CompletedAt:   s.now(),
			Report:        payload,
		})
		if err != nil {
			s.logger.Error("failed to record run", slog.String("dataset", sc.DatasetID), slog.Any("error", err))
		} else {
			runID = run.ID
		}
	}

	status := http.StatusOK
	if !report.Passed() {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set(RunIDHeader, runID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// limitedBody records whether the body limit was hit so the handler can
// answer 413 instead of reporting a malformed record.
type limitedBody struct {
	r        io.Reader
	tooLarge bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		b.tooLarge = true
	}
	return n, err
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("invalid value for " + key + ": " + raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}
