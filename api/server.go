// Package api はcalheatのAPIサーバー実装を提供します。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stsysd/calheat/config"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
	"github.com/stsysd/calheat/store"
)

// maxBodySize はリクエストボディの上限です。
const maxBodySize = 16 << 20

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	handler http.Handler
	store   store.VisualizationStore
	config  *config.Config
	loc     *time.Location
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error("failed to encode error response", "err", err)
	}
}

// writeVisError はチャートを描画できない理由を {"title","message"} で返却します。
func writeVisError(w http.ResponseWriter, visErr *model.VisError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(visErr); err != nil {
		logging.Error("failed to encode vis error", "err", err)
	}
}

// writeJSON は値をJSONとして返却します。
func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "err", err)
	}
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(store store.VisualizationStore, cfg *config.Config) *Server {
	loc, err := cfg.Location()
	if err != nil {
		logging.Warn("falling back to UTC", "err", err)
		loc = time.UTC
	}

	s := &Server{
		router: http.NewServeMux(),
		store:  store,
		config: cfg,
		loc:    loc,
	}
	s.routes()
	s.handler = loggingMiddleware(metricsMiddleware(s.router))
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックとメトリクスは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)
	s.router.Handle("GET /metrics", promhttp.Handler())

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Render endpoints
	securedHandler.HandleFunc("POST /api/v0/render", s.handleRender)
	securedHandler.HandleFunc("POST /api/v0/render/frame", s.handleRenderFrame)

	// Visualization endpoints
	securedHandler.HandleFunc("GET /api/v0/v", s.handleListVisualizations)
	securedHandler.HandleFunc("POST /api/v0/v", s.handleCreateVisualization)
	securedHandler.HandleFunc("GET /api/v0/v/{vis_id}", s.handleGetVisualization)
	securedHandler.HandleFunc("PUT /api/v0/v/{vis_id}", s.handleUpdateVisualization)
	securedHandler.HandleFunc("DELETE /api/v0/v/{vis_id}", s.handleDeleteVisualization)
	securedHandler.HandleFunc("POST /api/v0/v/{vis_id}/render", s.handleRenderVisualization)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Run はサーバーを指定されたアドレスで起動し、ctxがキャンセルされるまで待ちます。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
