package scoring

//TotalLabel names the last row of a count comparison
const TotalLabel = "Total"

//CountRow compares how often a class occurs after correction with how often the model predicted it
type CountRow struct {
	Label     string `json:"label"`
	Actual    int    `json:"actual"`
	Predicted int    `json:"predicted"`
	Delta     int    `json:"delta"`
}

//CountComparison returns one row per label (actual, predicted, actual - predicted), followed by a total row
func CountComparison(labels []string, actualCounts, predictedCounts []int, actualTotal, predictedTotal int) []CountRow {
	rows := make([]CountRow, 0, len(labels)+1)
	for i, label := range labels {
		var a, p int
		if i < len(actualCounts) {
			a = actualCounts[i]
		}
		if i < len(predictedCounts) {
			p = predictedCounts[i]
		}
		rows = append(rows, CountRow{Label: label, Actual: a, Predicted: p, Delta: a - p})
	}

	rows = append(rows, CountRow{
		Label:     TotalLabel,
		Actual:    actualTotal,
		Predicted: predictedTotal,
		Delta:     actualTotal - predictedTotal,
	})
	return rows
}

//Venn splits the corrected objects into model boxes marked as false detections, model boxes that were real
//objects, and boxes the reviewer had to add
type Venn struct {
	FalseDetections     int `json:"falseDetections"`
	DetectedAndLabelled int `json:"detectedAndLabelled"`
	Undetected          int `json:"undetected"`
}

//Triple returns the breakdown in the order the reports print it
func (v Venn) Triple() [3]int {
	return [3]int{v.FalseDetections, v.DetectedAndLabelled, v.Undetected}
}
