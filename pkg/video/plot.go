package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
	"gocv.io/x/gocv"
)

//fixRect clamps a record's rectangle into the frame, returns false if nothing of it is visible
func fixRect(r annotation.Record, width, height int) (image.Rectangle, bool) {
	rect := image.Rect(
		int(r.Left+0.5), int(r.Top+0.5),
		int(r.Left+r.Width+0.5), int(r.Top+r.Height+0.5),
	).Intersect(image.Rect(0, 0, width, height))
	return rect, !rect.Empty()
}

//plotRecordOnFrame plots given record's bounding box and writes its object id and label above it
func plotRecordOnFrame(frame *gocv.Mat, r annotation.Record) {
	rect, ok := fixRect(r, frame.Cols(), frame.Rows())
	if !ok {
		return
	}

	plotColor := boxColor(r)
	gocv.Rectangle(frame, rect, plotColor, 3)

	text := fmt.Sprintf("%d: %s", r.ObjectID, r.Label)
	if r.Origin == annotation.OriginModel && r.Label != utils.UnlabelledLabel {
		text = fmt.Sprintf("%s %.0f%%", text, r.ModelConfidence*100)
	}

	size := gocv.GetTextSize(text, gocv.FontHersheyPlain, 1, 2)
	startPoint := image.Pt(rect.Min.X, rect.Min.Y-5)
	if startPoint.Y-size.Y < 0 { //no room above the box, write inside it
		startPoint.Y = rect.Min.Y + size.Y + 5
	}

	whiteRGB := color.RGBA{255, 255, 255, 0}
	textBackgroundRect := image.Rect(startPoint.X, startPoint.Y-size.Y-5, startPoint.X+size.X+4, startPoint.Y+5) //thickness -1 == filled rectangle
	gocv.Rectangle(frame, textBackgroundRect, plotColor, -1)
	gocv.PutText(frame, text, image.Pt(startPoint.X+2, startPoint.Y), gocv.FontHersheyPlain, 1, whiteRGB, 2)
}
