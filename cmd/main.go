package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/api"
	"github.com/chenBenjamin97/model-checker/pkg/session"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
	"github.com/chenBenjamin97/model-checker/pkg/video"
	"github.com/cyclopcam/logs"
	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("display.width", utils.DefaultDisplayWidth)
	viper.SetDefault("display.height", utils.DefaultDisplayHeight)
	viper.SetDefault("editor.min-box-width", utils.MinBoxWidth)
	viper.SetDefault("editor.min-box-height", utils.MinBoxHeight)
	viper.SetDefault("editor.autosave-interval", utils.AutoSaveInterval)
	viper.SetDefault("backend.timeout", 10*time.Second)
	viper.SetDefault("directory.root", "data")
	viper.SetDefault("directory.reports", "data/reports")
}

//readRecords reads a model output csv file
func readRecords(csvPath string, origin annotation.Origin) ([]annotation.Record, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return annotation.ReadCSV(f, origin)
}

func fromWire(wire []annotation.WireRecord, origin annotation.Origin) []annotation.Record {
	records := make([]annotation.Record, len(wire))
	for i, w := range wire {
		records[i] = annotation.FromWire(w, origin)
	}
	return records
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	setDefaults()
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error: Could not read config file, got '%v'", err)
	}

	logger, err := logs.NewLog()
	if err != nil {
		log.Fatalf("Error: Could not create logger, got '%v'", err)
	}

	//create missing directories from config file
	for _, dir := range []string{viper.GetString("directory.root"), viper.GetString("directory.reports")} {
		if err := utils.EnsureDir(dir); err != nil {
			logger.Errorf("%v", err)
		}
	}

	videoPath := viper.GetString("video.path")
	containerID := viper.GetString("backend.container-id")
	if videoPath == "" || len(viper.GetStringSlice("classes")) == 0 || viper.GetString("backend.url") == "" || containerID == "" {
		logger.Criticalf("Error: Missing critical configurations")
		os.Exit(1)
	}

	vocab, err := annotation.NewVocabulary(viper.GetStringSlice("classes"))
	if err != nil {
		logger.Criticalf("Error: Invalid classes, got '%v'", err)
		os.Exit(1)
	}

	info, err := video.Probe(videoPath)
	if err != nil {
		logger.Criticalf("Error: %v", err)
		os.Exit(1)
	}
	if info.FPS <= 0 {
		info.FPS = viper.GetFloat64("video.fps")
		logger.Warnf("Video reports no frame rate, using %.2f from config", info.FPS)
	}

	transport := session.NewHTTPTransport(logger, viper.GetString("backend.url"), viper.GetString("backend.token"), viper.GetDuration("backend.timeout"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//predictions come from the model output file when there is one, the backend keeps a pristine copy otherwise
	var predictions []annotation.Record
	if csvPath := viper.GetString("annotations.predictions"); csvPath != "" {
		predictions, err = readRecords(csvPath, annotation.OriginModel)
	} else {
		var wire []annotation.WireRecord
		wire, err = transport.FetchPredictions(ctx, containerID)
		predictions = fromWire(wire, annotation.OriginModel)
	}
	if err != nil {
		logger.Criticalf("Error: Could not load predictions, got '%v'", err)
		os.Exit(1)
	}

	var corrected []annotation.Record
	if csvPath := viper.GetString("annotations.corrected"); csvPath != "" {
		corrected, err = readRecords(csvPath, annotation.OriginModel)
	} else {
		var wire []annotation.WireRecord
		wire, err = transport.FetchRecords(ctx, containerID)
		corrected = fromWire(wire, annotation.OriginModel)
	}
	if err != nil {
		logger.Criticalf("Error: Could not load corrected records, got '%v'", err)
		os.Exit(1)
	}

	tel := telemetry.New()
	s, err := session.New(logger, session.Config{
		ContainerID:  containerID,
		Vocabulary:   vocab,
		Intrinsic:    info.Size(),
		Display:      annotation.Size{Width: viper.GetFloat64("display.width"), Height: viper.GetFloat64("display.height")},
		FPS:          info.FPS,
		MinBoxWidth:  viper.GetFloat64("editor.min-box-width"),
		MinBoxHeight: viper.GetFloat64("editor.min-box-height"),
		Transport:    transport,
		Telemetry:    tel,
		Notify: func(n session.Notice, frames []int) {
			if len(frames) > 0 {
				logger.Warnf("Notice: %v on frames %v", n, frames)
			} else {
				logger.Infof("Notice: %v", n)
			}
		},
	}, predictions, corrected)
	if err != nil {
		logger.Criticalf("Error: Could not start session, got '%v'", err)
		os.Exit(1)
	}

	saver := session.NewAutoSaver(s, viper.GetDuration("editor.autosave-interval"))
	if err := saver.Start(ctx); err != nil {
		logger.Errorf("Error: Auto save not started, got '%v'", err)
	}
	defer saver.Stop()

	reportsDir := viper.GetString("directory.reports")
	server := api.NewServer(logger, s, tel, videoPath, func(ctx context.Context, records []annotation.Record) (string, error) {
		return video.Tag(ctx, logger, videoPath, reportsDir, records)
	})

	//serve a review video rendered by an earlier run right away
	if names, err := utils.ListDir(reportsDir); err == nil && utils.InSlice(video.RenderedName(videoPath), names) {
		server.SetRendered(path.Join(reportsDir, video.RenderedName(videoPath)))
	}

	r := server.SetRouter()
	go func() {
		if err := r.Run(":" + viper.GetString("http.port")); err != nil {
			logger.Errorf("Error: Got '%v'", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down, submitting pending edits")
	if err := s.Submit(context.Background(), false); err != nil {
		logger.Warnf("Final submission failed, got '%v'", err)
	}
}
