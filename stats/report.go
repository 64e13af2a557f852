package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport writes the plain-text assembly report. The caller decides where
// it goes (stdout or a file). The first write error stops the report and is
// returned.
func WriteReport(w io.Writer, name string, s Stats) error {
	p := message.NewPrinter(language.English)

	var err error
	printf := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		_, err = p.Fprintf(w, format, args...)
	}

	printf("Assembly Statistics for %s\n", name)
	printf("%s\n", strings.Repeat("-", 50))
	printf("Total contigs: %d\n", s.Contigs)
	printf("Total bases: %d\n", s.TotalBases)
	printf("Longest contig: %d bp\n", s.Max)
	printf("Shortest contig: %d bp\n", s.Min)
	printf("Mean contig length: %d bp\n", int(s.Mean))
	printf("Median contig length: %d bp\n", int(s.Median))
	printf("N50: %d bp\n", s.N50)
	printf("L50: %d\n", s.L50)
	printf("GC content: %.2f%%\n", s.GC*100)

	printf("\nLength distribution:\n")
	for i, threshold := range LengthThresholds {
		count := 0
		if i < len(s.LengthDist) {
			count = s.LengthDist[i]
		}
		printf("  >= %d bp: %d contigs\n", threshold, count)
	}
	return err
}

func createLengthDistChart(name string, s Stats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Length distribution: %s", name)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Contigs"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Minimum contig length (bp)"}),
	)

	var xData []string
	var barData []opts.BarData
	for i, threshold := range LengthThresholds {
		xData = append(xData, fmt.Sprintf(">= %d", threshold))
		count := 0
		if i < len(s.LengthDist) {
			count = s.LengthDist[i]
		}
		barData = append(barData, opts.BarData{Value: count})
	}

	bar.SetXAxis(xData).AddSeries("contigs", barData)
	return bar
}

// WriteHTMLReport renders the length distribution chart to an HTML page.
func WriteHTMLReport(htmlPath string, name string, s Stats) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(createLengthDistChart(name, s))

	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
