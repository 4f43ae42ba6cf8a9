package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateRoundTrip(t *testing.T) {
	sizes := []struct {
		intrinsic, display Size
	}{
		{Size{1920, 1080}, Size{960, 540}},
		{Size{1280, 720}, Size{960, 540}},
		{Size{640, 480}, Size{961, 333}},
		{Size{3, 7}, Size{1000, 1}},
	}

	r := Record{ObjectID: 1, Left: 101.5, Top: 33.25, Width: 77.125, Height: 12.75, Label: "Cat"}
	for _, sz := range sizes {
		back := ToIntrinsicSpace(ToDisplaySpace(r, sz.intrinsic, sz.display), sz.intrinsic, sz.display)
		assert.InDelta(t, r.Left, back.Left, 1e-9)
		assert.InDelta(t, r.Top, back.Top, 1e-9)
		assert.InDelta(t, r.Width, back.Width, 1e-9)
		assert.InDelta(t, r.Height, back.Height, 1e-9)
		assert.Equal(t, "Cat", back.Label)
	}
}

func TestToDisplaySpaceScalesPerAxis(t *testing.T) {
	r := Record{Left: 100, Top: 100, Width: 200, Height: 50}
	d := ToDisplaySpace(r, Size{1920, 1080}, Size{960, 270})
	assert.Equal(t, Box{Left: 50, Top: 25, Width: 100, Height: 12.5}, d.Box())
	assert.Equal(t, 100.0, r.Left, "input is not modified")
}

func TestToWireRoundsToIntrinsicPixels(t *testing.T) {
	id := int64(4)
	r := Record{RecordID: &id, FrameNum: 3, ObjectID: 8, Label: "Hen", Left: 10.3, Top: 10.7, Width: 20.25, Height: 5.5, CsvID: 2}
	w := ToWire(r, Size{1920, 1080}, Size{960, 540})

	assert.Equal(t, 21, w.TrackerL)
	assert.Equal(t, 21, w.TrackerT)
	assert.Equal(t, 41, w.TrackerW)
	assert.Equal(t, 11, w.TrackerH)
	assert.Equal(t, int64(4), *w.ID)
	assert.Equal(t, 8, w.ObjectID)
	assert.Equal(t, int64(2), w.CsvID)

	back := FromWire(w, OriginModel)
	assert.Equal(t, 21.0, back.Left)
	assert.Equal(t, OriginModel, back.Origin)
}

func TestClipPoint(t *testing.T) {
	bounds := Size{960, 540}
	x, y := ClipPoint(-5, 600, bounds)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 540.0, y)

	x, y = ClipPoint(1000, -1, bounds)
	assert.Equal(t, 960.0, x)
	assert.Equal(t, 0.0, y)

	x, y = ClipPoint(12.5, 13.5, bounds)
	assert.Equal(t, 12.5, x)
	assert.Equal(t, 13.5, y)
}

func TestClipBox(t *testing.T) {
	b := ClipBox(Box{Left: -10, Top: 500, Width: 100, Height: 100}, Size{960, 540})
	assert.Equal(t, Box{Left: 0, Top: 500, Width: 90, Height: 40}, b)
}

func TestVocabularyAppendsReservedLabels(t *testing.T) {
	v, err := NewVocabulary([]string{"Cat", "unlabelled", "Fish", "Cat", "Hen"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "Fish", "Hen", "false_detection", "unlabelled"}, v.Labels())
	assert.Equal(t, 3, v.ClassCount())
	assert.Equal(t, 3, v.IndexOf("false_detection"))
	assert.Equal(t, -1, v.IndexOf("Dog"))

	_, err = NewVocabulary([]string{"false_detection"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestReadCSV(t *testing.T) {
	data := "Frame_Num, object_id,label,tracker_l,tracker_t,tracker_w,tracker_h,model_confidence,tracker_confidence,csv_id\n" +
		"0,0,Cat,10,20,30,40,0.9,0.8,3\n" +
		"1, 1 ,Fish,1,2,3,4,0.5,0.25,3\n"

	records, err := ReadCSV(strings.NewReader(data), OriginModel)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{
		FrameNum: 0, ObjectID: 0, Label: "Cat", Left: 10, Top: 20, Width: 30, Height: 40,
		ModelConfidence: 0.9, TrackerConfidence: 0.8, CsvID: 3, Origin: OriginModel,
	}, records[0])
	assert.Equal(t, "Fish", records[1].Label)
	assert.Equal(t, 1, records[1].ObjectID)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("frame_num,object_id\n1,2\n"), OriginModel)
	assert.ErrorIs(t, err, ErrMissingColumn)

	header := "frame_num,object_id,label,tracker_l,tracker_t,tracker_w,tracker_h,model_confidence,tracker_confidence\n"
	_, err = ReadCSV(strings.NewReader(header+"x,0,Cat,1,1,1,1,0,0\n"), OriginModel)
	assert.Error(t, err)

	records, err := ReadCSV(strings.NewReader(""), OriginModel)
	require.NoError(t, err)
	assert.Empty(t, records)
}
