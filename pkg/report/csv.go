package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/chenBenjamin97/model-checker/pkg/scoring"
)

type reportError string

func (e reportError) Error() string { return string(e) }

const ErrNoLabels = reportError("metrics carry no labels")

//WriteCSV exports given metrics as consecutive titled sections separated by an empty line:
//Confusion Matrix, Averages, Per Class, Count Comparison, Venn and Average IOU. Undefined scores are written as NaN
func WriteCSV(w io.Writer, m scoring.Metrics) error {
	if len(m.Labels) == 0 {
		return ErrNoLabels
	}

	out := csv.NewWriter(w)
	var rows [][]string
	section := func(title string, header []string, body ...[]string) {
		if len(rows) > 0 {
			rows = append(rows, []string{})
		}
		rows = append(rows, []string{title})
		if header != nil {
			rows = append(rows, header)
		}
		rows = append(rows, body...)
	}

	confusion := m.Confusion.Rows()
	body := make([][]string, len(confusion))
	for i, row := range confusion {
		body[i] = append(make([]string, 0, len(row)+1), m.Labels[i])
		for _, v := range row {
			body[i] = append(body[i], strconv.Itoa(v))
		}
	}
	section("Confusion Matrix", append([]string{"Actual \\ Predicted"}, m.Labels...), body...)

	section("Averages", []string{"", "F1", "Precision", "Recall"},
		[]string{"Macro", m.Macro.F1.String(), m.Macro.Precision.String(), m.Macro.Recall.String()},
		[]string{"Weighted", m.Weighted.F1.String(), m.Weighted.Precision.String(), m.Weighted.Recall.String()},
	)

	body = make([][]string, 0, len(m.PerClass))
	for i := range m.PerClass {
		f1 := scoring.Undefined()
		if i < len(m.PerClassF1) {
			f1 = m.PerClassF1[i]
		}
		body = append(body, []string{m.Labels[i], m.PerClass[i].Precision.String(), m.PerClass[i].Recall.String(), f1.String()})
	}
	section("Per Class", []string{"Label", "Precision", "Recall", "F1"}, body...)

	body = make([][]string, 0, len(m.CountComparison))
	for _, row := range m.CountComparison {
		body = append(body, []string{row.Label, strconv.Itoa(row.Actual), strconv.Itoa(row.Predicted), strconv.Itoa(row.Delta)})
	}
	section("Count Comparison", []string{"Label", "Actual", "Predicted", "Delta"}, body...)

	venn := m.Venn.Triple()
	section("Venn", []string{"False Detections", "Detected And Labelled", "Undetected"},
		[]string{strconv.Itoa(venn[0]), strconv.Itoa(venn[1]), strconv.Itoa(venn[2])},
	)

	section("Average IOU", nil, []string{m.AverageIOU.String()})

	if err := out.WriteAll(rows); err != nil {
		return fmt.Errorf("WriteCSV: Error writing metrics, got '%w'", err)
	}
	return nil
}
