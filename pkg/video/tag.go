package video

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/cyclopcam/logs"
	"gocv.io/x/gocv"
)

//Probe opens a video and returns its frame rate, resolution and length
func Probe(videoPath string) (Info, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return Info{}, fmt.Errorf("Probe: Error opening '%s', got '%w'", videoPath, err)
	}
	defer capture.Close()

	info := Info{
		FPS:        capture.Get(gocv.VideoCaptureFPS),
		Width:      int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FrameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("Probe: '%s' reports an invalid resolution %dx%d", videoPath, info.Width, info.Height)
	}
	return info, nil
}

//RenderedName returns the file name Tag writes the review video of given source video to
func RenderedName(srcVideoPath string) string {
	base := path.Base(srcVideoPath)
	return strings.TrimSuffix(base, path.Ext(base)) + "-review.avi"
}

//Tag reads the video at srcVideoPath and plots given records (intrinsic coordinates) over their frames.
//The tagged video (XVID (== MPEG-4 codec) format, '.avi' extension) is written to outputDir under RenderedName and its
//path is returned. Frames are decoded by a separate goroutine and handed over in chunks.
func Tag(ctx context.Context, log logs.Log, srcVideoPath, outputDir string, records []annotation.Record) (string, error) {
	capture, err := gocv.VideoCaptureFile(srcVideoPath)
	if err != nil {
		return "", fmt.Errorf("Tag: Error opening '%s', got '%w'", srcVideoPath, err)
	}
	defer capture.Close()

	outputPath := path.Join(outputDir, RenderedName(srcVideoPath))
	tmpPath := outputPath + ".tmp.avi"
	writer, err := gocv.VideoWriterFile(tmpPath, "XVID", capture.Get(gocv.VideoCaptureFPS),
		int(capture.Get(gocv.VideoCaptureFrameWidth)), int(capture.Get(gocv.VideoCaptureFrameHeight)), true)
	if err != nil {
		return "", fmt.Errorf("Tag: Error creating '%s', got '%w'", tmpPath, err)
	}
	defer os.Remove(tmpPath) //no-op once renamed

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	chunksC := make(chan framesChunk)
	go readFrames(ctx, capture, chunksC)

	frames := byFrame(records)
	written := 0
	var writeErr error
	for chunk := range chunksC {
		for i := range chunk.frames {
			if writeErr == nil {
				for _, r := range frames[chunk.first+i] {
					plotRecordOnFrame(&chunk.frames[i], r)
				}
				if err := writer.Write(chunk.frames[i]); err != nil {
					writeErr = fmt.Errorf("Tag: Error writing frame %d, got '%w'", chunk.first+i, err)
					cancel()
				} else {
					written++
				}
			}
			chunk.frames[i].Close()
		}
	}

	if err := writer.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("Tag: Error closing '%s', got '%w'", tmpPath, err)
	}
	if writeErr != nil {
		return "", writeErr
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("Tag: Cancelled after %d frames: %w", written, err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("Tag: Error moving '%s' to '%s', got '%w'", tmpPath, outputPath, err)
	}
	log.Infof("Tag: Wrote %d frames with %d boxes to '%s'", written, len(records), outputPath)
	return outputPath, nil
}
