package scoring

import (
	"sort"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
)

//Metrics is everything computed from one (predictions, corrected) pair. Per class slices are indexed like the
//vocabulary the metrics were computed with.
type Metrics struct {
	Labels          []string        `json:"labels"`
	Confusion       ConfusionMatrix `json:"confusionMatrix"`
	PerClass        []ClassScores   `json:"precisionRecall"`
	PerClassF1      []Score         `json:"perClassF1"`
	Macro           Averages        `json:"macroAverages"`
	Weighted        Averages        `json:"weightedAverages"`
	CountComparison []CountRow      `json:"countComparison"`
	Venn            Venn            `json:"venn"`
	AverageIOU      Score           `json:"averageIou"`

	//Matched is the number of positionally paired objects, LabelCount the number of classes present in the video
	Matched    int `json:"matched"`
	LabelCount int `json:"labelCount"`
}

//sortByObjectID returns a copy of records sorted by object id, ties keep their order
func sortByObjectID(records []annotation.Record) []annotation.Record {
	sorted := make([]annotation.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ObjectID < sorted[j].ObjectID
	})
	return sorted
}

//countLabels adds one to counts[vocab.IndexOf(label)] for every record, unknown labels are skipped
func countLabels(vocab annotation.Vocabulary, records []annotation.Record, counts []int) {
	for _, r := range records {
		if i := vocab.IndexOf(r.Label); i >= 0 {
			counts[i]++
		}
	}
}

//ComputeMetrics scores the model predictions against the corrected annotations.
//Both lists are sorted by object id and paired by position; corrected records past the end of the predictions are
//objects the model missed. Labels outside vocab take part in the totals but in no per class table.
func ComputeMetrics(vocab annotation.Vocabulary, predictions, corrected []annotation.Record) Metrics {
	labels := vocab.Labels()
	n := len(labels)
	metrics := Metrics{Labels: labels}
	if n == 0 {
		return metrics
	}

	pred := sortByObjectID(predictions)
	act := sortByObjectID(corrected)
	matched := min(len(pred), len(act))
	metrics.Matched = matched

	actualIdx := make([]int, matched)
	predIdx := make([]int, matched)
	for k := 0; k < matched; k++ {
		actualIdx[k] = vocab.IndexOf(act[k].Label)
		predIdx[k] = vocab.IndexOf(pred[k].Label)
	}
	metrics.Confusion = NewConfusionMatrix(actualIdx, predIdx, n)
	metrics.PerClass, metrics.PerClassF1 = PerClass(metrics.Confusion)

	matchedCounts := make([]int, n)
	countLabels(vocab, act[:matched], matchedCounts)
	predictedCounts := make([]int, n)
	countLabels(vocab, pred, predictedCounts)
	undetected := act[matched:]
	actualCounts := make([]int, n)
	copy(actualCounts, matchedCounts)
	countLabels(vocab, undetected, actualCounts)

	for c := 0; c < vocab.ClassCount(); c++ {
		if matchedCounts[c] != 0 || predictedCounts[c] != 0 {
			metrics.LabelCount++
		}
	}

	metrics.Macro = MacroAverage(metrics.PerClassF1, metrics.PerClass, metrics.LabelCount)
	metrics.Weighted = WeightedAverage(metrics.PerClassF1, metrics.PerClass, matchedCounts, len(pred))
	metrics.CountComparison = CountComparison(labels, actualCounts, predictedCounts, len(act), len(pred))

	falseDetections := 0
	if i := vocab.IndexOf(utils.FalseDetectionLabel); i >= 0 {
		falseDetections = actualCounts[i]
	}
	metrics.Venn = Venn{
		FalseDetections:     falseDetections,
		DetectedAndLabelled: len(act) - falseDetections - len(undetected),
		Undetected:          len(undetected),
	}

	metrics.AverageIOU = averageIOU(pred, act)
	return metrics
}
