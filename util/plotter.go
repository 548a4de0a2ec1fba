package util

import (
	"fmt"
	"io"

	"anchor-status/models/hours"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	venueStack   = "venue"
	kitchenStack = "kitchen"
)

// PlotWeeklyHours renders the given days as a floating bar chart: each bar starts
// at the opening hour and spans the service length, so late closes run past 24.
func PlotWeeklyHours(w io.Writer, days []hours.EffectiveDayHours) error {
	labels := make([]string, 0, len(days))
	venueOffset := make([]opts.BarData, 0, len(days))
	venueSpan := make([]opts.BarData, 0, len(days))
	kitchenOffset := make([]opts.BarData, 0, len(days))
	kitchenSpan := make([]opts.BarData, 0, len(days))

	for _, day := range days {
		label := day.Weekday
		if day.Date != "" {
			label = fmt.Sprintf("%s %s", day.Weekday, day.Date)
		}
		if day.IsSpecial {
			label += " *"
		}
		labels = append(labels, label)

		start, length := 0.0, 0.0
		if !day.IsVenueClosed {
			start, length = spanOf(day.VenueOpen, day.VenueClose)
		}
		venueOffset = append(venueOffset, opts.BarData{Value: start})
		venueSpan = append(venueSpan, opts.BarData{Name: spanLabel(day.VenueOpen, day.VenueClose, length), Value: length})

		start, length = 0.0, 0.0
		if !day.IsKitchenClosed && day.HasKitchenService() {
			start, length = spanOf(day.Kitchen.Opens, day.Kitchen.Closes)
		}
		kitchenOffset = append(kitchenOffset, opts.BarData{Value: start})
		kitchenName := ""
		if day.Kitchen != nil {
			kitchenName = spanLabel(day.Kitchen.Opens, day.Kitchen.Closes, length)
		}
		kitchenSpan = append(kitchenSpan, opts.BarData{Name: kitchenName, Value: length})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Opening Hours",
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Opening hours",
			Subtitle: "Venue and kitchen service, * marks special hours",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hour", Min: 0, Max: 30}),
	)

	transparent := charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"})
	bar.SetXAxis(labels).
		AddSeries("venue_offset", venueOffset, charts.WithBarChartOpts(opts.BarChart{Stack: venueStack}), transparent).
		AddSeries("Venue", venueSpan, charts.WithBarChartOpts(opts.BarChart{Stack: venueStack})).
		AddSeries("kitchen_offset", kitchenOffset, charts.WithBarChartOpts(opts.BarChart{Stack: kitchenStack}), transparent).
		AddSeries("Kitchen", kitchenSpan, charts.WithBarChartOpts(opts.BarChart{Stack: kitchenStack}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render hours chart: %w", err)
	}
	return nil
}

// spanOf returns the start hour and length of a window, carrying a past-midnight
// close onto the next day.
func spanOf(openRaw, closeRaw string) (float64, float64) {
	open, err := ParseDecimalHours(openRaw)
	if err != nil {
		return 0, 0
	}
	close, err := ParseDecimalHours(closeRaw)
	if err != nil {
		return 0, 0
	}
	if close < open {
		close += 24
	}
	return open, close - open
}

func spanLabel(openRaw, closeRaw string, length float64) string {
	if length == 0 {
		return "Closed"
	}
	return FormatTimeNoSeconds(openRaw) + "-" + FormatTimeNoSeconds(closeRaw)
}
