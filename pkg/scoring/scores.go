package scoring

//ClassScores holds the precision and recall of one class
type ClassScores struct {
	Precision Score `json:"precision"`
	Recall    Score `json:"recall"`
}

//Averages holds F1, precision and recall averaged over classes
type Averages struct {
	F1        Score `json:"f1"`
	Precision Score `json:"precision"`
	Recall    Score `json:"recall"`
}

//Precision of class c: true positives over everything the model predicted as c (TP/(TP+FP))
func Precision(cm ConfusionMatrix, c int) Score {
	return ratio(float64(cm.At(c, c)), cm.ColSum(c))
}

//Recall of class c: true positives over every object that actually is c (TP/(TP+FN))
func Recall(cm ConfusionMatrix, c int) Score {
	return ratio(float64(cm.At(c, c)), cm.RowSum(c))
}

//F1 is the harmonic mean of precision and recall, undefined when either is undefined or both are 0
func F1(precision, recall Score) Score {
	p, okP := precision.Value()
	r, okR := recall.Value()
	if !okP || !okR {
		return Undefined()
	}
	return ratio(2*p*r, p+r)
}

//PerClass returns precision/recall and F1 of every class of the matrix
func PerClass(cm ConfusionMatrix) ([]ClassScores, []Score) {
	n := cm.Size()
	pr := make([]ClassScores, n)
	f1 := make([]Score, n)
	for c := 0; c < n; c++ {
		pr[c] = ClassScores{Precision: Precision(cm, c), Recall: Recall(cm, c)}
		f1[c] = F1(pr[c].Precision, pr[c].Recall)
	}
	return pr, f1
}

//MacroAverage sums the defined per class scores and divides by labelCount, the number of classes present in the
//video. Undefined scores add nothing but still count in labelCount.
func MacroAverage(perClassF1 []Score, pr []ClassScores, labelCount int) Averages {
	var f1, p, r float64
	for i := range perClassF1 {
		f1 += perClassF1[i].Or(0)
	}
	for i := range pr {
		p += pr[i].Precision.Or(0)
		r += pr[i].Recall.Or(0)
	}

	d := float64(labelCount)
	return Averages{F1: ratio(f1, d), Precision: ratio(p, d), Recall: ratio(r, d)}
}

//WeightedAverage weights each class's scores by its actual count and divides by sampleCount, the number of
//objects the model detected.
func WeightedAverage(perClassF1 []Score, pr []ClassScores, counts []int, sampleCount int) Averages {
	weight := func(i int) float64 {
		if i < len(counts) {
			return float64(counts[i])
		}
		return 0
	}

	var f1, p, r float64
	for i := range perClassF1 {
		f1 += perClassF1[i].Or(0) * weight(i)
	}
	for i := range pr {
		p += pr[i].Precision.Or(0) * weight(i)
		r += pr[i].Recall.Or(0) * weight(i)
	}

	d := float64(sampleCount)
	return Averages{F1: ratio(f1, d), Precision: ratio(p, d), Recall: ratio(r, d)}
}
