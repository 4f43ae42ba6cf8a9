package video

import (
	"image/color"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
	"gocv.io/x/gocv"
)

//Info describes a video file
type Info struct {
	FPS        float64 `json:"fps"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frameCount"`
}

//Size returns the intrinsic resolution as an annotation size
func (i Info) Size() annotation.Size {
	return annotation.Size{Width: float64(i.Width), Height: float64(i.Height)}
}

var modelColor = color.RGBA{255, 0, 0, 0}
var userColor = color.RGBA{0, 255, 0, 0}
var modifiedColor = color.RGBA{0, 0, 255, 0}
var falseDetectionColor = color.RGBA{128, 128, 128, 0}

//boxColor picks the overlay colour of a record: grey for false detections, blue for edited boxes, green for boxes
//drawn by a reviewer and red for untouched predictions
func boxColor(r annotation.Record) color.RGBA {
	switch {
	case r.Label == utils.FalseDetectionLabel:
		return falseDetectionColor
	case r.Modified:
		return modifiedColor
	case r.Origin == annotation.OriginUser:
		return userColor
	default:
		return modelColor
	}
}

//framesChunk is a run of consecutive decoded frames, first holds the number of frames[0]
type framesChunk struct {
	first  int
	frames []gocv.Mat
}

//byFrame groups records by frame number
func byFrame(records []annotation.Record) map[int][]annotation.Record {
	res := make(map[int][]annotation.Record)
	for _, r := range records {
		res[r.FrameNum] = append(res[r.FrameNum], r)
	}
	return res
}
