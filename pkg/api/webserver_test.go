package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/session"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
	"github.com/cyclopcam/logs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	fail error
	sent int
}

func (f *fakeTransport) Submit(ctx context.Context, containerID string, records []annotation.WireRecord) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent += len(records)
	return nil
}

func (f *fakeTransport) DeleteRecords(ctx context.Context, records []annotation.WireRecord) error {
	return f.fail
}

func newTestServer(t *testing.T, tr *fakeTransport, render RenderFunc) (*gin.Engine, *session.Session) {
	gin.SetMode(gin.TestMode)

	vocab, err := annotation.NewVocabulary([]string{"Cat", "Fish"})
	require.NoError(t, err)
	tel := telemetry.New()
	cfg := session.Config{
		ContainerID: "c1",
		Vocabulary:  vocab,
		Intrinsic:   annotation.Size{Width: 1920, Height: 1080},
		Display:     annotation.Size{Width: 960, Height: 540},
		FPS:         25,
		Transport:   tr,
		Telemetry:   tel,
	}

	prediction := annotation.Record{FrameNum: 4, ObjectID: 0, Label: "Cat"}
	prediction.SetBox(annotation.Box{Left: 100, Top: 100, Width: 200, Height: 200})
	log := logs.NewTestingLog(t)
	s, err := session.New(log, cfg, []annotation.Record{prediction}, nil)
	require.NoError(t, err)

	return NewServer(log, s, tel, "/does/not/exist.mp4", render).SetRouter(), s
}

func do(t *testing.T, r http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestFrameRoutes(t *testing.T) {
	r, _ := newTestServer(t, &fakeTransport{}, nil)

	rec := do(t, r, http.MethodGet, "/api/frames/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode(t, rec)["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, 50.0, records[0].(map[string]any)["trackerL"])

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/frames/abc", nil).Code)

	rec = do(t, r, http.MethodPost, "/api/frame", gin.H{"mediaTime": 0.16})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, decode(t, rec)["frame"])

	rec = do(t, r, http.MethodGet, "/api/next-object?frame=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode(t, rec)
	assert.Equal(t, 4.0, next["frame"])
	assert.InDelta(t, 4.0/25+0.0001, next["seekTime"], 1e-9)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/next-object?frame=4", nil).Code)
}

func TestBoxRoutes(t *testing.T) {
	r, s := newTestServer(t, &fakeTransport{}, nil)

	rec := do(t, r, http.MethodPost, "/api/boxes", gin.H{"frame": 2, "left": 10, "top": 10, "width": 20, "height": 80})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["created"])

	rec = do(t, r, http.MethodPost, "/api/boxes", gin.H{"frame": 2, "left": 10, "top": 10, "width": 60, "height": 80})
	require.Equal(t, http.StatusCreated, rec.Code)
	record := decode(t, rec)["record"].(map[string]any)
	assert.Equal(t, 1.0, record["objectId"])
	assert.Equal(t, "unlabelled", record["label"])

	rec = do(t, r, http.MethodPut, "/api/boxes/1", gin.H{"frame": 2, "left": 20, "top": 10, "width": 60, "height": 80})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["changed"])

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/boxes/1/label", gin.H{"frame": 2, "label": "Dog"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/api/boxes/9/label", gin.H{"frame": 2, "label": "Fish"}).Code)
	rec = do(t, r, http.MethodPost, "/api/boxes/1/label", gin.H{"frame": 2, "label": "Fish"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fish", decode(t, rec)["label"])

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodDelete, "/api/frames/4/boxes/0", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/frames/2/boxes/1", nil).Code)
	assert.Empty(t, s.Get(2))
	assert.Len(t, s.Deleted(), 1)
}

func TestPointerRoutes(t *testing.T) {
	r, s := newTestServer(t, &fakeTransport{}, nil)
	require.NoError(t, s.SetFrame(7))

	rec := do(t, r, http.MethodPost, "/api/pointer/down", gin.H{"x": 100, "y": 100})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "drawing", decode(t, rec)["state"])

	rec = do(t, r, http.MethodPost, "/api/pointer/move", gin.H{"x": 2000, "y": 160})
	require.Equal(t, http.StatusOK, rec.Code)
	box := decode(t, rec)["box"].(map[string]any)
	assert.Equal(t, 860.0, box["width"], "clipped to the canvas")

	rec = do(t, r, http.MethodPost, "/api/pointer/up", gin.H{"x": 200, "y": 180})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	assert.Equal(t, "created", res["state"])
	assert.Equal(t, true, res["changed"])
	require.Len(t, s.Get(7), 1)
}

func TestSubmitRoute(t *testing.T) {
	tr := &fakeTransport{}
	r, _ := newTestServer(t, tr, nil)

	rec := do(t, r, http.MethodPost, "/api/boxes", gin.H{"frame": 3, "left": 10, "top": 10, "width": 60, "height": 80})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/submit", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []any{3.0}, decode(t, rec)["frames"])

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/boxes/1/label", gin.H{"frame": 3, "label": "Cat"}).Code)

	tr.fail = errors.New("backend down")
	assert.Equal(t, http.StatusBadGateway, do(t, r, http.MethodPost, "/api/submit", nil).Code)

	tr.fail = nil
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/submit", nil).Code)
	assert.Equal(t, 1, tr.sent)
}

func TestMetricsRoutes(t *testing.T) {
	r, _ := newTestServer(t, &fakeTransport{}, nil)

	rec := do(t, r, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, 1.0, m["averageIou"])
	assert.Equal(t, []any{"Cat", "Fish", "false_detection", "unlabelled"}, m["labels"])

	rec = do(t, r, http.MethodGet, "/api/metrics/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Confusion Matrix"))

	rec = do(t, r, http.MethodGet, "/api/metrics/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "model_checker_reports_rendered_total 2")
}

func TestRenderRoutes(t *testing.T) {
	r, _ := newTestServer(t, &fakeTransport{}, nil)
	assert.Equal(t, http.StatusNotImplemented, do(t, r, http.MethodPost, "/api/render", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/Play", nil).Code)

	release := make(chan struct{})
	var got []annotation.Record
	render := func(ctx context.Context, records []annotation.Record) (string, error) {
		got = records
		<-release
		return "/tmp/missing-review.avi", nil
	}
	r, _ = newTestServer(t, &fakeTransport{}, render)

	assert.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, "/api/render", nil).Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/api/render", nil).Code)
	close(release)

	require.Eventually(t, func() bool {
		status := decode(t, do(t, r, http.MethodGet, "/api/render", nil))
		return status["ready"] == true && status["rendering"] == false
	}, time.Second, 5*time.Millisecond)

	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].Left, "rendered in intrinsic coordinates")
}
