package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, status int, message string) {
	env := envelope{"error": errorBody{Code: http.StatusText(status), Message: message}}
	if err := writeJSON(w, status, env, nil); err != nil {
		log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func ServerErrorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("request failed", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	errorResponse(log, w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

func BadRequestResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(log, w, r, http.StatusBadRequest, err.Error())
}

func NotFoundResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(log, w, r, http.StatusNotFound, err.Error())
}

// statusResponse maps the util error code of err to a response.
func statusResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound):
		NotFoundResponse(log, w, r, err)
	case errors.Is(err, util.ErrBadParamInput):
		BadRequestResponse(log, w, r, err)
	default:
		ServerErrorResponse(log, w, r, err)
	}
}
