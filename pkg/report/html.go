package report

import (
	"fmt"
	"io"

	"github.com/chenBenjamin97/model-checker/pkg/scoring"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var heatColors = []string{"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"}

//scoreBar returns a bar value, "-" leaves a gap for an undefined score
func scoreBar(s scoring.Score) opts.BarData {
	v, ok := s.Value()
	if !ok {
		return opts.BarData{Value: "-"}
	}
	return opts.BarData{Value: fmt.Sprintf("%.3f", v)}
}

func confusionChart(m scoring.Metrics) *charts.Scatter {
	rows := m.Confusion.Rows()
	points := make([]opts.ScatterData, 0, len(rows)*len(rows))
	maxCount := 1
	for i, row := range rows {
		for j, count := range row {
			//x is the predicted label, y the corrected one
			points = append(points, opts.ScatterData{Value: []interface{}{j, i, count}})
			maxCount = max(maxCount, count)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Confusion Matrix", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Confusion Matrix", Subtitle: fmt.Sprintf("matched=%d", m.Matched)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Labels, Name: "Predicted", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Labels, Name: "Actual", NameLocation: "middle", NameGap: 90}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCount),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: heatColors},
		}),
	)
	scatter.AddSeries("count", points,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 40}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "inside"}),
	)
	return scatter
}

func perClassChart(m scoring.Metrics) *charts.Bar {
	precision := make([]opts.BarData, len(m.PerClass))
	recall := make([]opts.BarData, len(m.PerClass))
	f1 := make([]opts.BarData, len(m.PerClassF1))
	for i := range m.PerClass {
		precision[i] = scoreBar(m.PerClass[i].Precision)
		recall[i] = scoreBar(m.PerClass[i].Recall)
	}
	for i := range m.PerClassF1 {
		f1[i] = scoreBar(m.PerClassF1[i])
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Per Class Scores",
			Subtitle: fmt.Sprintf("macro F1=%s weighted F1=%s",
				m.Macro.F1.Percent(), m.Weighted.F1.Percent()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	bar.SetXAxis(m.Labels).
		AddSeries("precision", precision).
		AddSeries("recall", recall).
		AddSeries("f1", f1)
	return bar
}

func countChart(m scoring.Metrics) *charts.Bar {
	labels := make([]string, len(m.CountComparison))
	actual := make([]opts.BarData, len(m.CountComparison))
	predicted := make([]opts.BarData, len(m.CountComparison))
	for i, row := range m.CountComparison {
		labels[i] = row.Label
		actual[i] = opts.BarData{Value: row.Actual}
		predicted[i] = opts.BarData{Value: row.Predicted}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Count Comparison"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	bar.SetXAxis(labels).
		AddSeries("actual", actual).
		AddSeries("predicted", predicted)
	return bar
}

func vennChart(m scoring.Metrics) *charts.Bar {
	venn := m.Venn.Triple()
	data := make([]opts.BarData, len(venn))
	for i, v := range venn {
		data[i] = opts.BarData{Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Detections", Subtitle: fmt.Sprintf("average IoU=%s", m.AverageIOU.Percent())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis([]string{"False Detections", "Detected And Labelled", "Undetected"}).
		AddSeries("objects", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

//RenderHTML writes a dashboard of given metrics: confusion matrix heat map, per class scores, count comparison and
//the detection breakdown
func RenderHTML(w io.Writer, m scoring.Metrics) error {
	if len(m.Labels) == 0 {
		return ErrNoLabels
	}

	page := components.NewPage()
	page.AddCharts(
		confusionChart(m),
		perClassChart(m),
		countChart(m),
		vennChart(m),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("RenderHTML: Error rendering metrics page, got '%w'", err)
	}
	return nil
}
