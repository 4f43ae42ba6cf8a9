package video

import (
	"context"

	"gocv.io/x/gocv"
)

//chunkLength is the number of frames decoded before they are handed over for plotting
const chunkLength = 16

//readFrames decodes given capture and sends its frames in chunks of chunkLength through given chan.
//The receiver owns (and must close) the sent Mats. Because this function is the only one who writes to given chan,
//it closes it before returning.
func readFrames(ctx context.Context, capture *gocv.VideoCapture, chunksC chan<- framesChunk) {
	defer close(chunksC)

	frameNumber := 0
	chunk := framesChunk{first: 0}
	for {
		mat := gocv.NewMat()
		if ok := capture.Read(&mat); !ok || mat.Empty() { //finished to read all video's frames
			mat.Close()
			break
		}

		chunk.frames = append(chunk.frames, mat)
		frameNumber++

		if len(chunk.frames) == chunkLength {
			select {
			case chunksC <- chunk:
			case <-ctx.Done():
				closeAll(chunk.frames)
				return
			}
			chunk = framesChunk{first: frameNumber}
		}
	}

	if len(chunk.frames) > 0 {
		select {
		case chunksC <- chunk:
		case <-ctx.Done():
			closeAll(chunk.frames)
		}
	}
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
