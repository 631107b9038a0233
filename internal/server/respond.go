package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var codeStatus = map[errors.Code]int{
	errors.ErrCodeInvalidInput:       http.StatusBadRequest,
	errors.ErrCodeInvalidFormat:      http.StatusBadRequest,
	errors.ErrCodeImportMalformed:    http.StatusBadRequest,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeNotEditing:         http.StatusConflict,
	errors.ErrCodeInvalidConnection:  http.StatusUnprocessableEntity,
	errors.ErrCodeImportInvalidNode:  http.StatusUnprocessableEntity,
	errors.ErrCodeImportInvalidEdge:  http.StatusUnprocessableEntity,
	errors.ErrCodeImportDanglingEdge: http.StatusUnprocessableEntity,
	errors.ErrCodeImportInvalidGraph: http.StatusUnprocessableEntity,
}

// classify attaches a code to errors coming straight from the flow package.
func classify(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(err, flow.ErrNodeNotFound), stderrors.Is(err, flow.ErrEdgeNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "element not found")
	case stderrors.Is(err, flow.ErrInvalidConnection):
		return errors.Wrap(errors.ErrCodeInvalidConnection, err, "connection rejected")
	case stderrors.Is(err, flow.ErrDuplicateStart), stderrors.Is(err, flow.ErrUnknownKind):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid node")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "internal error")
}

func statusFor(code errors.Code) int {
	if st, ok := codeStatus[code]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	err = classify(err)
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
