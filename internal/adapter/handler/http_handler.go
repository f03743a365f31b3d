package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/rl1809/production-records/internal/core/domain"
	"github.com/rl1809/production-records/internal/core/service"
	"github.com/rl1809/production-records/internal/metrics"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	records *service.RecordService
	auth    *service.AuthService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type CredentialsHTTPRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddRecordHTTPRequest struct {
	PartName string `json:"parca_ad"`
	Quantity int    `json:"adet"`
	Shift    string `json:"vardiya"`
	Operator string `json:"operator"`
	Machine  string `json:"makine"`
}

type AddRecordHTTPResponse struct {
	Message string               `json:"message"`
	User    string               `json:"user"`
	Data    AddRecordHTTPRequest `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginHTTPResponse struct {
	AccessToken string `json:"access_token"`
}

type recordCSV struct {
	User      string `csv:"Kullanıcı"`
	PartName  string `csv:"Parça"`
	Quantity  int    `csv:"Adet"`
	Shift     string `csv:"Vardiya"`
	Operator  string `csv:"Operatör"`
	Machine   string `csv:"Makine"`
	CreatedAt string `csv:"Tarih"`
}

func NewHTTPHandler(records *service.RecordService, auth *service.AuthService, m *metrics.Metrics, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		records: records,
		auth:    auth,
		metrics: m,
		logger:  logger,
	}
}

func (h *HTTPHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "pong"})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register echoes the username back. Nothing is persisted.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsHTTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
		return
	}

	msg, err := h.auth.Register(req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsHTTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginHTTPResponse{AccessToken: token})
}

func (h *HTTPHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := IdentityFrom(r.Context())

	var req AddRecordHTTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
		return
	}

	record, err := h.records.AddRecord(r.Context(), user, domain.RecordInput{
		PartName: req.PartName,
		Quantity: req.Quantity,
		Shift:    req.Shift,
		Operator: req.Operator,
		Machine:  req.Machine,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.RecordAppended()
	h.logger.Debug("record added", zap.String("id", record.ID), zap.String("user", user))

	writeJSON(w, http.StatusOK, AddRecordHTTPResponse{
		Message: "Record added",
		User:    user,
		Data:    req,
	})
}

func (h *HTTPHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.RecentRecords(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.records.Summary(r.Context(), r.URL.Query().Get("parca_ad"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.RecentRecords(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rows := make([]recordCSV, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordCSV{
			User:      rec.User,
			PartName:  rec.PartName,
			Quantity:  rec.Quantity,
			Shift:     rec.Shift,
			Operator:  rec.Operator,
			Machine:   rec.Machine,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}

	body, err := gocsv.MarshalBytes(rows)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("encode csv: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="uretim_kayitlari.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord), errors.Is(err, service.ErrMissingUsername):
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
