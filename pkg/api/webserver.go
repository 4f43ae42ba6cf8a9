package api

import (
	"context"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/session"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
	"github.com/cyclopcam/logs"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

//RenderFunc writes a review video of given records (intrinsic coordinates) and returns its path
type RenderFunc func(ctx context.Context, records []annotation.Record) (string, error)

//Server exposes a review session to the browser player
type Server struct {
	log       logs.Log
	session   *session.Session
	telemetry *telemetry.Telemetry
	videoPath string
	render    RenderFunc

	renderMu     sync.Mutex
	rendering    bool
	renderedPath string
	renderErr    error
}

//NewServer returns a server for given session. render may be nil, review videos are then unavailable
func NewServer(log logs.Log, s *session.Session, tel *telemetry.Telemetry, videoPath string, render RenderFunc) *Server {
	return &Server{
		log:       log,
		session:   s,
		telemetry: tel,
		videoPath: videoPath,
		render:    render,
	}
}

//SetRendered makes a review video rendered by an earlier run playable
func (s *Server) SetRendered(videoPath string) {
	s.renderMu.Lock()
	s.renderedPath = videoPath
	s.renderMu.Unlock()
}

func (s *Server) SetRouter() *gin.Engine {
	r := gin.Default()

	//serve html pages to client
	if staticPath := viper.GetString("frontend.static-files-path"); staticPath != "" {
		r.Static("/client", staticPath)
		r.StaticFile("/", path.Join(staticPath, "index.html"))
	}

	if s.telemetry != nil {
		r.GET("/metrics", gin.WrapH(s.telemetry.Handler()))
	}

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/status", s.status)
	apiRoutes.GET("/labels", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, s.session.Vocabulary().Labels())
	})

	apiRoutes.GET("/frames/:frame", s.getFrame)
	apiRoutes.POST("/frame", s.setFrame)
	apiRoutes.GET("/next-object", s.nextObject)

	apiRoutes.POST("/pointer/down", s.pointerDown)
	apiRoutes.POST("/pointer/move", s.pointerMove)
	apiRoutes.POST("/pointer/up", s.pointerUp)

	apiRoutes.POST("/boxes", s.createBox)
	apiRoutes.PUT("/boxes/:objectId", s.moveOrResizeBox)
	apiRoutes.POST("/boxes/:objectId/label", s.relabelBox)
	apiRoutes.DELETE("/frames/:frame/boxes/:objectId", s.deleteBox)

	apiRoutes.POST("/submit", s.submit)

	apiRoutes.GET("/metrics", s.metrics)
	apiRoutes.GET("/metrics/report", s.metricsReport)
	apiRoutes.GET("/metrics/export", s.metricsExport)

	apiRoutes.GET("/Play", s.play)
	apiRoutes.POST("/render", s.startRender)
	apiRoutes.GET("/render", s.renderStatus)

	return r
}

func (s *Server) play(ctx *gin.Context) {
	videoPath := s.videoPath
	if ctx.Query("rendered") == "true" {
		s.renderMu.Lock()
		videoPath = s.renderedPath
		s.renderMu.Unlock()
		if videoPath == "" {
			ctx.Status(http.StatusNotFound)
			return
		}
	}

	if _, err := os.Stat(videoPath); err != nil {
		if os.IsNotExist(err) {
			ctx.Status(http.StatusNotFound)
		} else {
			ctx.Status(http.StatusInternalServerError)
		}
		return
	}

	if path.Ext(videoPath) == ".avi" {
		ctx.Header("Content-Type", "video/x-msvideo")
	} else {
		ctx.Header("Content-Type", "video/mp4")
	}
	http.ServeFile(ctx.Writer, ctx.Request, videoPath)
}

//startRender renders the review video in background, one at a time
func (s *Server) startRender(ctx *gin.Context) {
	if s.render == nil {
		ctx.Status(http.StatusNotImplemented)
		return
	}

	s.renderMu.Lock()
	if s.rendering {
		s.renderMu.Unlock()
		ctx.Status(http.StatusConflict)
		return
	}
	s.rendering = true
	s.renderMu.Unlock()

	records := s.session.IntrinsicRecords()
	go func() {
		outputPath, err := s.render(context.Background(), records)
		if err != nil {
			s.log.Errorf("api/render: %v", err)
		} else {
			s.telemetry.Inc(telemetry.VideosRendered)
		}

		s.renderMu.Lock()
		s.rendering = false
		s.renderErr = err
		if err == nil {
			s.renderedPath = outputPath
		}
		s.renderMu.Unlock()
	}()

	ctx.Status(http.StatusAccepted)
}

func (s *Server) renderStatus(ctx *gin.Context) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	res := gin.H{"rendering": s.rendering, "ready": s.renderedPath != ""}
	if s.renderErr != nil {
		res["error"] = s.renderErr.Error()
	}
	ctx.JSON(http.StatusOK, res)
}
