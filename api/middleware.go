// Package api はcalheatのAPIサーバー実装を提供します。
package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/stsysd/calheat/logging"
)

// authMiddleware はAPIリクエストの認証を行うミドルウェアです。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ヘッダーからAPIキーを取得
		apiKey := r.Header.Get("X-API-Key")

		// APIキーがサーバー側で設定されていない場合はエラー
		if s.config.APIKey == "" {
			writeJSONError(w, "API authentication is not configured on server", http.StatusInternalServerError)
			return
		}

		// APIキーが一致するか確認
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.config.APIKey)) != 1 {
			writeJSONError(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
			return
		}

		// 認証成功：次のハンドラーを呼び出し
		next.ServeHTTP(w, r)
	})
}

// statusRecorder はレスポンスのステータスコードを記録します。
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func record(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

// loggingMiddleware はリクエストごとにアクセスログを出力します。
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logging.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}

// metricsMiddleware はリクエスト数をPrometheusのカウンターに記録します。
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := record(w)
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}
