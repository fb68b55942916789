package planview

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	// chartSamples is the number of load points on the false-positive curve.
	chartSamples = 40

	// chartLoadFactor extends the curve to this multiple of the design load.
	chartLoadFactor = 2

	chartWidth  = "900px"
	chartHeight = "500px"

	lineWidth = 2
)

// WriteFPChart renders the predicted false-positive curve for the plan as a
// standalone HTML line chart, sampled from an empty filter up to twice the
// design load.
func WriteFPChart(path string, p Plan) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Predicted false-positive rate",
			Subtitle: fmt.Sprintf("m=%d bits, k=%d hashes, design load %d elements", p.CapacityBits, p.HashCount, p.Elements),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Inserted elements"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "FP rate"}),
	)

	labels := make([]string, 0, chartSamples+1)
	data := make([]opts.LineData, 0, chartSamples+1)

	maxLoad := p.Elements * chartLoadFactor

	for i := 0; i < chartSamples+1; i++ {
		load := maxLoad * uint64(i) / chartSamples

		labels = append(labels, strconv.FormatUint(load, 10))
		data = append(data, opts.LineData{Value: fpAtLoad(p.CapacityBits, p.HashCount, load)})
	}

	line.SetXAxis(labels)
	line.AddSeries("FP rate", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	file, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("create chart file: %w", createErr)
	}

	defer file.Close()

	renderErr := line.Render(file)
	if renderErr != nil {
		return fmt.Errorf("render chart: %w", renderErr)
	}

	return nil
}
