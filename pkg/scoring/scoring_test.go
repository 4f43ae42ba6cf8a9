package scoring

import (
	"encoding/json"
	"testing"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 0.001

var fixtureClasses = []string{"Cat", "Fish", "Hen"}

// Rows are the corrected label, columns the predicted one
var fixtureMatrix = [][]int{
	{4, 1, 1},
	{6, 2, 2},
	{3, 0, 6},
}

func fixtureVocabulary(t *testing.T) annotation.Vocabulary {
	vocab, err := annotation.NewVocabulary(fixtureClasses)
	require.NoError(t, err)
	return vocab
}

// fixtureRecords expands fixtureMatrix into paired records with identical boxes
func fixtureRecords() (predictions, corrected []annotation.Record) {
	id := 0
	for i, row := range fixtureMatrix {
		for j, n := range row {
			for k := 0; k < n; k++ {
				box := annotation.Box{Left: float64(id), Top: 10, Width: 60, Height: 60}
				p := annotation.Record{FrameNum: id, ObjectID: id, Label: fixtureClasses[j], Origin: annotation.OriginModel}
				p.SetBox(box)
				c := p
				c.Label = fixtureClasses[i]
				predictions = append(predictions, p)
				corrected = append(corrected, c)
				id++
			}
		}
	}
	return
}

func value(t *testing.T, s Score) float64 {
	v, ok := s.Value()
	require.True(t, ok, "score is undefined")
	return v
}

func TestConfusionMatrix(t *testing.T) {
	cm := NewConfusionMatrix([]int{0, 0, 1, 2, -1}, []int{0, 1, 1, 2, 0}, 3)
	assert.Equal(t, [][]int{{1, 1, 0}, {0, 1, 0}, {0, 0, 1}}, cm.Rows())
	assert.Equal(t, 4, cm.Total())
	assert.Equal(t, 2.0, cm.RowSum(0))
	assert.Equal(t, 2.0, cm.ColSum(1))

	b, err := json.Marshal(cm)
	require.NoError(t, err)
	assert.Equal(t, "[[1,1,0],[0,1,0],[0,0,1]]", string(b))
}

func TestPrecisionRecallF1(t *testing.T) {
	cm := ConfusionMatrixFromRows(fixtureMatrix)
	pr, f1 := PerClass(cm)

	expectedP := []float64{4.0 / 13, 2.0 / 3, 6.0 / 9}
	expectedR := []float64{4.0 / 6, 2.0 / 10, 6.0 / 9}
	expectedF1 := []float64{0.421, 0.308, 0.667}
	for c := range fixtureClasses {
		assert.InDelta(t, expectedP[c], value(t, pr[c].Precision), eps, fixtureClasses[c])
		assert.InDelta(t, expectedR[c], value(t, pr[c].Recall), eps, fixtureClasses[c])
		assert.InDelta(t, expectedF1[c], value(t, f1[c]), eps, fixtureClasses[c])
	}
}

func TestUndefinedScores(t *testing.T) {
	// Class 1 never predicted and never present
	cm := ConfusionMatrixFromRows([][]int{{2, 0}, {0, 0}})
	assert.False(t, Precision(cm, 1).Valid())
	assert.False(t, Recall(cm, 1).Valid())
	assert.False(t, F1(Precision(cm, 1), Recall(cm, 0)).Valid())

	// Both defined but zero
	assert.False(t, F1(Defined(0), Defined(0)).Valid())
	assert.InDelta(t, 0.5, value(t, F1(Defined(0.5), Defined(0.5))), eps)
}

func TestAverages(t *testing.T) {
	cm := ConfusionMatrixFromRows(fixtureMatrix)
	pr, f1 := PerClass(cm)

	macro := MacroAverage(f1, pr, 3)
	assert.InDelta(t, 0.547, value(t, macro.Precision), eps)
	assert.InDelta(t, 0.511, value(t, macro.Recall), eps)
	assert.InDelta(t, 0.465, value(t, macro.F1), eps)

	weighted := WeightedAverage(f1, pr, []int{6, 10, 9}, 25)
	assert.InDelta(t, 0.581, value(t, weighted.Precision), eps)
	assert.InDelta(t, 0.480, value(t, weighted.Recall), eps)
	assert.InDelta(t, 0.464, value(t, weighted.F1), eps)

	assert.False(t, MacroAverage(f1, pr, 0).F1.Valid())
	assert.False(t, WeightedAverage(f1, pr, []int{6, 10, 9}, 0).Precision.Valid())
}

func TestCountComparison(t *testing.T) {
	rows := CountComparison(fixtureClasses, []int{6, 10, 9}, []int{13, 3, 9}, 25, 25)
	require.Len(t, rows, 4)

	var actual, predicted, delta []int
	for _, r := range rows {
		actual = append(actual, r.Actual)
		predicted = append(predicted, r.Predicted)
		delta = append(delta, r.Delta)
	}
	assert.Equal(t, []int{6, 10, 9, 25}, actual)
	assert.Equal(t, []int{13, 3, 9, 25}, predicted)
	assert.Equal(t, []int{-7, 7, 0, 0}, delta)
	assert.Equal(t, TotalLabel, rows[3].Label)
}

func TestIOU(t *testing.T) {
	a := annotation.Box{Left: 0, Top: 0, Width: 10, Height: 10}
	assert.InDelta(t, 1.0, IOU(a, a), eps)

	b := annotation.Box{Left: 5, Top: 5, Width: 10, Height: 10}
	assert.InDelta(t, 25.0/175, IOU(a, b), eps)
	assert.Equal(t, IOU(a, b), IOU(b, a))

	far := annotation.Box{Left: 100, Top: 100, Width: 10, Height: 10}
	assert.Equal(t, 0.0, IOU(a, far))

	// Overlapping on x only must not produce a positive intersection
	side := annotation.Box{Left: 5, Top: 50, Width: 10, Height: 10}
	assert.Equal(t, 0.0, IOU(a, side))

	assert.Equal(t, 0.0, IOU(annotation.Box{}, annotation.Box{}))
}

func TestComputeMetricsFixture(t *testing.T) {
	vocab := fixtureVocabulary(t)
	predictions, corrected := fixtureRecords()

	m := ComputeMetrics(vocab, predictions, corrected)
	assert.Equal(t, 25, m.Matched)
	assert.Equal(t, 3, m.LabelCount)
	assert.Equal(t, fixtureMatrix[0], m.Confusion.Rows()[0][:3])
	assert.Equal(t, fixtureMatrix[2], m.Confusion.Rows()[2][:3])

	assert.InDelta(t, 0.547, value(t, m.Macro.Precision), eps)
	assert.InDelta(t, 0.465, value(t, m.Macro.F1), eps)
	assert.InDelta(t, 0.581, value(t, m.Weighted.Precision), eps)
	assert.InDelta(t, 0.464, value(t, m.Weighted.F1), eps)

	// Reserved labels never occur here, so their scores stay undefined
	assert.False(t, m.PerClassF1[3].Valid())
	assert.False(t, m.PerClass[4].Precision.Valid())

	total := m.CountComparison[len(m.CountComparison)-1]
	assert.Equal(t, CountRow{Label: TotalLabel, Actual: 25, Predicted: 25, Delta: 0}, total)
	assert.Equal(t, Venn{FalseDetections: 0, DetectedAndLabelled: 25, Undetected: 0}, m.Venn)
	assert.InDelta(t, 1.0, value(t, m.AverageIOU), eps)
}

func TestComputeMetricsPairsByObjectID(t *testing.T) {
	vocab := fixtureVocabulary(t)
	box := annotation.Box{Left: 0, Top: 0, Width: 60, Height: 60}
	rec := func(id int, label string) annotation.Record {
		r := annotation.Record{ObjectID: id, Label: label}
		r.SetBox(box)
		return r
	}

	predictions := []annotation.Record{rec(2, "Fish"), rec(1, "Cat")}
	corrected := []annotation.Record{rec(1, "Cat"), rec(2, "Fish")}
	m := ComputeMetrics(vocab, predictions, corrected)
	assert.Equal(t, 1, m.Confusion.At(0, 0))
	assert.Equal(t, 1, m.Confusion.At(1, 1))
	assert.InDelta(t, 1.0, value(t, m.Macro.F1), eps)
}

func TestComputeMetricsCorrections(t *testing.T) {
	vocab := fixtureVocabulary(t)
	box := annotation.Box{Left: 0, Top: 0, Width: 60, Height: 60}
	rec := func(id int, label string) annotation.Record {
		r := annotation.Record{ObjectID: id, Label: label}
		r.SetBox(box)
		return r
	}

	predictions := []annotation.Record{rec(1, "Cat"), rec(2, "Cat"), rec(3, "Fish")}
	corrected := []annotation.Record{
		rec(1, "Cat"),
		rec(2, "false_detection"),
		rec(3, "unlabelled"),
		rec(4, "Fish"),
		rec(5, "Cat"),
	}

	m := ComputeMetrics(vocab, predictions, corrected)
	assert.Equal(t, 3, m.Matched)
	assert.Equal(t, 2, m.LabelCount)
	assert.Equal(t, Venn{FalseDetections: 1, DetectedAndLabelled: 2, Undetected: 2}, m.Venn)

	// One perfect box, then a false detection and two missed objects counted as 0
	assert.InDelta(t, 0.25, value(t, m.AverageIOU), eps)

	cat := m.CountComparison[0]
	assert.Equal(t, CountRow{Label: "Cat", Actual: 2, Predicted: 2, Delta: 0}, cat)
	fish := m.CountComparison[1]
	assert.Equal(t, CountRow{Label: "Fish", Actual: 1, Predicted: 1, Delta: 0}, fish)
	total := m.CountComparison[len(m.CountComparison)-1]
	assert.Equal(t, CountRow{Label: TotalLabel, Actual: 5, Predicted: 3, Delta: 2}, total)
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(fixtureVocabulary(t), nil, nil)
	assert.Equal(t, 0, m.Matched)
	assert.False(t, m.AverageIOU.Valid())
	assert.False(t, m.Macro.F1.Valid())
	assert.False(t, m.Weighted.Recall.Valid())
	assert.Equal(t, Venn{}, m.Venn)
}

func TestScoreJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Score `json:"a"`
		B Score `json:"b"`
	}{A: Defined(0.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.5,"b":null}`, string(b))

	var s Score
	require.NoError(t, json.Unmarshal([]byte("null"), &s))
	assert.False(t, s.Valid())
	require.NoError(t, json.Unmarshal([]byte("0.25"), &s))
	assert.Equal(t, Defined(0.25), s)
	assert.Equal(t, "NaN", Undefined().String())
	assert.Equal(t, "25.00%", s.Percent())
}
