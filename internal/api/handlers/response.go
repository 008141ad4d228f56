package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Виды ошибок в теле ответа
const (
	KindValidationFailed = "validation_failed"
	KindVenueNotFound    = "venue_not_found"
	KindNotFound         = "not_found"
	KindSlotConflict     = "slot_conflict"
	KindForbidden        = "forbidden"
	KindUnauthorized     = "unauthorized"
	KindTooManyRequests  = "too_many_requests"
	KindInternal         = "internal"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	// maxBodyBytes ограничение размера тела запроса (импорт до 1000 строк помещается)
	maxBodyBytes = 2 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Kind    string      `json:"kind"`
	Details interface{} `json:"details,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку заданного вида
func RespondError(w http.ResponseWriter, status int, kind, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Kind: kind})
}

// RespondErrorDetails отправляет ошибку с дополнительными данными
func RespondErrorDetails(w http.ResponseWriter, status int, kind, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Kind: kind, Details: details})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, KindValidationFailed, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, KindNotFound, message)
}

func RespondVenueNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, KindVenueNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string, details interface{}) {
	RespondErrorDetails(w, http.StatusConflict, KindSlotConflict, message, details)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, KindForbidden, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, KindTooManyRequests, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, KindInternal, msgInternalError)
}
