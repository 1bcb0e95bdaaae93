package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/stsysd/calheat/frame"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
	"github.com/stsysd/calheat/vis"
)

// RenderOptions はすべての描画エンドポイントに共通する出力指定です。
type RenderOptions struct {
	Config   *model.VisConfig `json:"config"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Format   string           `json:"format"`
	Timezone string           `json:"timezone"`
}

// apply は出力指定を検証してUpdateRequestに反映します。
func (o *RenderOptions) apply(req *vis.UpdateRequest, defaultLoc *time.Location) error {
	size, err := model.NewSize(o.Width, o.Height)
	if err != nil {
		return err
	}
	format, err := model.NewRenderFormat(o.Format)
	if err != nil {
		return err
	}

	req.Location = defaultLoc
	if o.Timezone != "" {
		tz, err := model.NewTimezone(o.Timezone)
		if err != nil {
			return err
		}
		req.Location = tz.Location()
	}

	if o.Config != nil {
		req.Config = o.Config
	}
	req.Width = size.Width()
	req.Height = size.Height()
	req.Format = format
	return nil
}

// RenderParams represents parameters for rendering query rows.
type RenderParams struct {
	Request vis.UpdateRequest
}

// NewRenderParams creates render parameters from an HTTP request.
func NewRenderParams(r *http.Request, defaultLoc *time.Location) (*RenderParams, error) {
	var requestBody struct {
		RenderOptions
		Data          []model.Row          `json:"data"`
		QueryResponse *model.QueryResponse `json:"query_response"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		return nil, err
	}

	params := &RenderParams{Request: vis.UpdateRequest{
		Rows:          requestBody.Data,
		QueryResponse: requestBody.QueryResponse,
	}}
	if err := requestBody.apply(&params.Request, defaultLoc); err != nil {
		return nil, err
	}
	return params, nil
}

// NewRenderFrameParams creates render parameters from a request carrying a data frame.
func NewRenderFrameParams(r *http.Request, defaultLoc *time.Location) (*RenderParams, error) {
	var requestBody struct {
		RenderOptions
		Frame json.RawMessage `json:"frame"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		return nil, err
	}
	if len(requestBody.Frame) == 0 {
		return nil, model.NewValidationError("frame is required")
	}

	f, err := frame.Decode(requestBody.Frame)
	if err != nil {
		return nil, err
	}
	qr, rows, err := frame.ToQuery(f)
	if err != nil {
		return nil, err
	}

	params := &RenderParams{Request: vis.UpdateRequest{
		Rows:          rows,
		QueryResponse: qr,
	}}
	if err := requestBody.apply(&params.Request, defaultLoc); err != nil {
		return nil, err
	}
	return params, nil
}

// decodeBody はリクエストボディをJSONとして読み込みます。
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return model.NewValidationError("failed to read request body")
	}
	if len(body) > maxBodySize {
		return model.NewValidationError("request body too large")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return model.NewValidationError(fmt.Sprintf("invalid JSON format: %v", err))
	}
	return nil
}

// handleRender はクエリ結果からカレンダーを描画するハンドラーです。
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	params, err := NewRenderParams(r, s.loc)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.render(r.Context(), w, params.Request)
}

// handleRenderFrame はデータフレームからカレンダーを描画するハンドラーです。
func (s *Server) handleRenderFrame(w http.ResponseWriter, r *http.Request) {
	params, err := NewRenderFrameParams(r, s.loc)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.render(r.Context(), w, params.Request)
}

// render は描画を実行し、結果またはエラーを返却します。
func (s *Server) render(ctx context.Context, w http.ResponseWriter, req vis.UpdateRequest) {
	format := string(req.Format)
	start := time.Now()
	res, err := vis.Update(ctx, req)
	renderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	if err != nil {
		var visErr *model.VisError
		var validationErr *model.ValidationError
		switch {
		case errors.As(err, &visErr):
			// 描画できない入力はホストにタイトルとメッセージで伝える
			renderTotal.WithLabelValues(format, "vis_error").Inc()
			writeVisError(w, visErr)
		case errors.As(err, &validationErr):
			renderTotal.WithLabelValues(format, "invalid").Inc()
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			renderTotal.WithLabelValues(format, "error").Inc()
			logging.Error("failed to render calendar", "format", format, "err", err)
			writeJSONError(w, "Failed to render calendar", http.StatusInternalServerError)
		}
		return
	}

	renderTotal.WithLabelValues(format, "ok").Inc()
	renderRecords.Observe(float64(res.Records))

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("X-Calheat-Records", strconv.Itoa(res.Records))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		logging.Error("failed to write image", "err", err)
	}
}
