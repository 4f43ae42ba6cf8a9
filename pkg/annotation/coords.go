package annotation

import "math"

//Size is the pixel size of a coordinate space (the video's intrinsic resolution or the player canvas)
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

//Valid returns true when both dimensions are positive
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

//Box is an axis aligned rectangle, top left corner plus extent
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

//Right returns the x coordinate of the box's right edge
func (b Box) Right() float64 { return b.Left + b.Width }

//Bottom returns the y coordinate of the box's bottom edge
func (b Box) Bottom() float64 { return b.Top + b.Height }

//Area returns width * height
func (b Box) Area() float64 { return b.Width * b.Height }

//BoxFromCorners builds a box out of two opposite corners given in any order
func BoxFromCorners(x1, y1, x2, y2 float64) Box {
	return Box{
		Left:   math.Min(x1, x2),
		Top:    math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

func scaleBox(b Box, sx, sy float64) Box {
	return Box{Left: b.Left * sx, Top: b.Top * sy, Width: b.Width * sx, Height: b.Height * sy}
}

//ToDisplaySpace scales a record from the video's intrinsic resolution to the player canvas
func ToDisplaySpace(r Record, intrinsic, display Size) Record {
	out := r.Clone()
	out.SetBox(scaleBox(r.Box(), display.Width/intrinsic.Width, display.Height/intrinsic.Height))
	return out
}

//ToIntrinsicSpace scales a record from the player canvas back to the video's intrinsic resolution
func ToIntrinsicSpace(r Record, intrinsic, display Size) Record {
	out := r.Clone()
	out.SetBox(scaleBox(r.Box(), intrinsic.Width/display.Width, intrinsic.Height/display.Height))
	return out
}

//ToWire converts a display space record into the backend form. Persisted coordinates are always whole pixels
func ToWire(r Record, intrinsic, display Size) WireRecord {
	in := ToIntrinsicSpace(r, intrinsic, display)
	w := WireRecord{
		FrameNum:          in.FrameNum,
		ObjectID:          in.ObjectID,
		Label:             in.Label,
		TrackerL:          int(math.Round(in.Left)),
		TrackerT:          int(math.Round(in.Top)),
		TrackerW:          int(math.Round(in.Width)),
		TrackerH:          int(math.Round(in.Height)),
		ModelConfidence:   in.ModelConfidence,
		TrackerConfidence: in.TrackerConfidence,
		CsvID:             in.CsvID,
	}
	if in.RecordID != nil {
		id := *in.RecordID
		w.ID = &id
	}
	return w
}

//ClipPoint clamps each coordinate independently into [0, bound]
func ClipPoint(x, y float64, bounds Size) (float64, float64) {
	return math.Max(math.Min(x, bounds.Width), 0), math.Max(math.Min(y, bounds.Height), 0)
}

//ClipBox keeps a box inside given bounds by clipping both of its corners
func ClipBox(b Box, bounds Size) Box {
	x1, y1 := ClipPoint(b.Left, b.Top, bounds)
	x2, y2 := ClipPoint(b.Right(), b.Bottom(), bounds)
	return BoxFromCorners(x1, y1, x2, y2)
}
