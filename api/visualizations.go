package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
)

// CreateVisualizationParams represents parameters for creating a visualization.
type CreateVisualizationParams struct {
	Name   *model.VisualizationName
	Config model.VisConfig
}

// NewCreateVisualizationParams creates parameters for visualization creation from HTTP request.
func NewCreateVisualizationParams(r *http.Request) (*CreateVisualizationParams, error) {
	var requestBody struct {
		Name   string           `json:"name"`
		Config *model.VisConfig `json:"config"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		return nil, err
	}

	name, err := model.NewVisualizationName(requestBody.Name)
	if err != nil {
		return nil, err
	}

	cfg := model.DefaultVisConfig()
	if requestBody.Config != nil {
		cfg = *requestBody.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &CreateVisualizationParams{Name: name, Config: cfg}, nil
}

// handleCreateVisualization は可視化作成エンドポイントのハンドラーです。
func (s *Server) handleCreateVisualization(w http.ResponseWriter, r *http.Request) {
	params, err := NewCreateVisualizationParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := model.NewVisualization(params.Name.String(), params.Config)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.CreateVisualization(r.Context(), v); err != nil {
		logging.Error("failed to create visualization", "err", err)
		writeJSONError(w, "Failed to create visualization", http.StatusInternalServerError)
		return
	}

	writeJSON(w, v, http.StatusCreated)
}

// ListVisualizationsParams represents parameters for listing visualizations.
type ListVisualizationsParams struct {
	Pagination *model.Pagination
}

// NewListVisualizationsParams creates parameters for visualization listing from HTTP request.
func NewListVisualizationsParams(r *http.Request) (*ListVisualizationsParams, error) {
	query := r.URL.Query()
	pagination, err := model.NewPagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		return nil, err
	}
	return &ListVisualizationsParams{Pagination: pagination}, nil
}

// handleListVisualizations は可視化一覧を取得するハンドラーです。
func (s *Server) handleListVisualizations(w http.ResponseWriter, r *http.Request) {
	params, err := NewListVisualizationsParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := s.store.ListVisualizations(r.Context(), params.Pagination.Limit(), params.Pagination.Offset())
	if err != nil {
		logging.Error("failed to list visualizations", "err", err)
		writeJSONError(w, "Failed to retrieve visualizations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"items":  items,
		"limit":  params.Pagination.Limit(),
		"offset": params.Pagination.Offset(),
	}, http.StatusOK)
}

// pathVisualizationID はパスパラメータから可視化IDを取得します。
func pathVisualizationID(r *http.Request) (uuid.UUID, error) {
	return model.ParseVisualizationID(r.PathValue("vis_id"))
}

// loadVisualization は可視化を取得し、失敗した場合はエラーレスポンスを返却します。
func (s *Server) loadVisualization(w http.ResponseWriter, r *http.Request) (*model.Visualization, bool) {
	id, err := pathVisualizationID(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	v, err := s.store.GetVisualization(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrVisualizationNotFound) {
			writeJSONError(w, "Visualization not found", http.StatusNotFound)
		} else {
			logging.Error("failed to retrieve visualization", "id", id, "err", err)
			writeJSONError(w, "Failed to retrieve visualization", http.StatusInternalServerError)
		}
		return nil, false
	}
	return v, true
}

// handleGetVisualization は特定のIDの可視化を取得するハンドラーです。
func (s *Server) handleGetVisualization(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadVisualization(w, r)
	if !ok {
		return
	}
	writeJSON(w, v, http.StatusOK)
}

// handleUpdateVisualization は可視化の名前と設定を更新するハンドラーです。
func (s *Server) handleUpdateVisualization(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadVisualization(w, r)
	if !ok {
		return
	}

	// 部分更新をサポートするためポインタ型を使用
	var updateData struct {
		Name   *string          `json:"name"`
		Config *model.VisConfig `json:"config"`
	}
	if err := decodeBody(r, &updateData); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated := *existing
	if updateData.Name != nil {
		updated.Name = *updateData.Name
	}
	// configは指定された場合に丸ごと置き換える（省略キーはデフォルト値）
	if updateData.Config != nil {
		updated.Config = *updateData.Config
	}
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateVisualization(r.Context(), &updated); err != nil {
		if errors.Is(err, model.ErrVisualizationNotFound) {
			writeJSONError(w, "Visualization not found", http.StatusNotFound)
		} else {
			logging.Error("failed to update visualization", "id", updated.ID, "err", err)
			writeJSONError(w, "Failed to update visualization", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, &updated, http.StatusOK)
}

// handleDeleteVisualization は特定のIDの可視化を削除するハンドラーです。
func (s *Server) handleDeleteVisualization(w http.ResponseWriter, r *http.Request) {
	id, err := pathVisualizationID(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteVisualization(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrVisualizationNotFound) {
			writeJSONError(w, "Visualization not found", http.StatusNotFound)
		} else {
			logging.Error("failed to delete visualization", "id", id, "err", err)
			writeJSONError(w, "Failed to delete visualization", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRenderVisualization は保存済みの設定でクエリ結果を描画するハンドラーです。
// リクエストにconfigが含まれる場合はそちらを優先します。
func (s *Server) handleRenderVisualization(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadVisualization(w, r)
	if !ok {
		return
	}

	params, err := NewRenderParams(r, s.loc)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.Request.Config == nil {
		cfg := v.Config
		params.Request.Config = &cfg
	}

	s.render(r.Context(), w, params.Request)
}
