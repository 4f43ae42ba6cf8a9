package scoring

import (
	"math"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
)

//IOU returns the intersection over union of two boxes, 0 when they do not overlap
func IOU(a, b annotation.Box) float64 {
	w := math.Max(0, math.Min(a.Right(), b.Right())-math.Max(a.Left, b.Left))
	h := math.Max(0, math.Min(a.Bottom(), b.Bottom())-math.Max(a.Top, b.Top))
	inter := w * h

	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

//averageIOU walks the corrected objects in object id order next to the predictions.
//Unlabelled objects are skipped entirely. False detections and objects with no prediction at their position count
//as 0, every other object adds the IoU with the prediction it was paired with.
func averageIOU(predictions, corrected []annotation.Record) Score {
	var sum float64
	count := 0
	for i, c := range corrected {
		if c.Label == utils.UnlabelledLabel {
			continue
		}
		if c.Label != utils.FalseDetectionLabel && i < len(predictions) {
			sum += IOU(c.Box(), predictions[i].Box())
		}
		count++
	}
	return ratio(sum, float64(count))
}
