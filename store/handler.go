package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

type handler struct {
	repo   Repository
	logger *zap.Logger
}

type actionResponse struct {
	Result   string `json:"result"`
	RowIndex int    `json:"rowIndex,omitempty"`
	Status   string `json:"狀態,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewHandler 建立與試算表 Web App 相同介面的路由：GET 讀取整張表，POST 表單變更狀態。
// 同時掛在 / 與 /exec，方便直接替換原本的 Apps Script 網址。
func NewHandler(repo Repository, logger *zap.Logger) http.Handler {
	h := &handler{repo: repo, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	for _, path := range []string{"/", "/exec"} {
		r.Get(path, h.listOrders)
		r.Post(path, h.updateStatus)
	}
	return r
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, actionResponse{Result: "error", Error: err.Error()})
		return
	}
	// 空表也要回傳 JSON 陣列
	if orders == nil {
		orders = []*models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Result: "error", Error: err.Error()})
		return
	}

	action, err := enum.ParseAction(r.PostForm.Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Result: "error", Error: err.Error()})
		return
	}
	rowIndex, err := strconv.Atoi(r.PostForm.Get("rowIndex"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Result: "error", Error: "rowIndex must be an integer"})
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), rowIndex, action)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, actionResponse{Result: "error", RowIndex: rowIndex, Error: err.Error()})
		return
	case errors.Is(err, ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, actionResponse{Result: "error", RowIndex: rowIndex, Error: err.Error()})
		return
	case err != nil:
		h.logger.Error("Failed to update order status",
			zap.String("mode", string(action)),
			zap.Int("row_index", rowIndex),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, actionResponse{Result: "error", RowIndex: rowIndex, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Result:   "success",
		RowIndex: order.RowIndex,
		Status:   order.Status.WireValue(),
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
