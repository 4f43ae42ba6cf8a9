package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/report"
	"github.com/chenBenjamin97/model-checker/pkg/session"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
	"github.com/gin-gonic/gin"
)

type frameRequest struct {
	MediaTime *float64 `json:"mediaTime"`
	Frame     *int     `json:"frame"`
}

type boxRequest struct {
	Frame  *int    `json:"frame"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b boxRequest) box() annotation.Box {
	return annotation.Box{Left: b.Left, Top: b.Top, Width: b.Width, Height: b.Height}
}

type labelRequest struct {
	Frame *int   `json:"frame"`
	Label string `json:"label" binding:"required"`
}

type pointerDownRequest struct {
	session.Point
	session.Hit
}

func intParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("'%s' must be an integer", name)})
		return 0, false
	}
	return v, true
}

//frameOf returns the requested frame, the session's current frame when none was given
func (s *Server) frameOf(frame *int) int {
	if frame != nil {
		return *frame
	}
	return s.session.Frame()
}

//editError maps session errors to status codes
func editError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrModelRecord):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrUnknownLabel), errors.Is(err, session.ErrInvalidFrame):
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) status(ctx *gin.Context) {
	modified, deleted := s.session.Pending()
	ctx.JSON(http.StatusOK, gin.H{
		"frame":     s.session.Frame(),
		"fps":       s.session.FPS(),
		"display":   s.session.Display(),
		"intrinsic": s.session.Intrinsic(),
		"pointer":   s.session.PointerState().String(),
		"modified":  modified,
		"deleted":   deleted,
	})
}

func (s *Server) getFrame(ctx *gin.Context) {
	frame, ok := intParam(ctx, "frame")
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"frame": frame, "records": s.session.Get(frame)})
}

func (s *Server) setFrame(ctx *gin.Context) {
	var req frameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var frame int
	switch {
	case req.MediaTime != nil:
		frame = s.session.SetMediaTime(*req.MediaTime)
	case req.Frame != nil:
		if err := s.session.SetFrame(*req.Frame); err != nil {
			editError(ctx, err)
			return
		}
		frame = *req.Frame
	default:
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "either mediaTime or frame is required"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"frame": frame, "records": s.session.Get(frame)})
}

func (s *Server) nextObject(ctx *gin.Context) {
	current := s.session.Frame()
	if q := ctx.Query("frame"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "'frame' must be an integer"})
			return
		}
		current = v
	}

	frame, seek, ok := s.session.NextObjectFrame(current)
	if !ok {
		ctx.Status(http.StatusNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"frame": frame, "seekTime": seek})
}

func (s *Server) pointerDown(ctx *gin.Context) {
	var req pointerDownRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, s.session.PointerDown(req.Point, req.Hit))
}

func (s *Server) pointerMove(ctx *gin.Context) {
	var p session.Point
	if err := ctx.ShouldBindJSON(&p); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, s.session.PointerMove(p))
}

func (s *Server) pointerUp(ctx *gin.Context) {
	var p session.Point
	if err := ctx.ShouldBindJSON(&p); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.session.PointerUp(p)
	if err != nil {
		editError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (s *Server) createBox(ctx *gin.Context) {
	var req boxRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, created := s.session.CreateBox(s.frameOf(req.Frame), req.box())
	if !created {
		ctx.JSON(http.StatusOK, gin.H{"created": false})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"created": true, "record": r})
}

func (s *Server) moveOrResizeBox(ctx *gin.Context) {
	objectID, ok := intParam(ctx, "objectId")
	if !ok {
		return
	}
	var req boxRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, changed, err := s.session.MoveOrResizeBox(s.frameOf(req.Frame), objectID, req.box())
	if err != nil {
		editError(ctx, err)
		return
	}
	if !changed {
		ctx.JSON(http.StatusOK, gin.H{"changed": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"changed": true, "record": r})
}

func (s *Server) relabelBox(ctx *gin.Context) {
	objectID, ok := intParam(ctx, "objectId")
	if !ok {
		return
	}
	var req labelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := s.session.RelabelBox(s.frameOf(req.Frame), objectID, req.Label)
	if err != nil {
		editError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, r)
}

func (s *Server) deleteBox(ctx *gin.Context) {
	frame, ok := intParam(ctx, "frame")
	if !ok {
		return
	}
	objectID, ok := intParam(ctx, "objectId")
	if !ok {
		return
	}

	if err := s.session.DeleteBox(frame, objectID); err != nil {
		editError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) submit(ctx *gin.Context) {
	err := s.session.Submit(ctx.Request.Context(), true)

	var unlabelled *session.UnlabelledError
	var transportErr *session.TransportError
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{"saved": true})
	case errors.As(err, &unlabelled):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "frames": unlabelled.Frames})
	case errors.As(err, &transportErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) metrics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.session.ComputeMetrics())
}

func (s *Server) metricsReport(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, s.session.ComputeMetrics()); err != nil {
		s.log.Errorf("api/metrics/report: %v", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	s.telemetry.Inc(telemetry.ReportsRendered)
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) metricsExport(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, s.session.ComputeMetrics()); err != nil {
		s.log.Errorf("api/metrics/export: %v", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	s.telemetry.Inc(telemetry.ReportsRendered)
	ctx.Header("Content-Disposition", `attachment; filename="metrics.csv"`)
	ctx.Data(http.StatusOK, "text/csv", buf.Bytes())
}
