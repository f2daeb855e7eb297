// Package charts turns analytics results into renderable go-echarts widgets.
// Builders only shape data; all aggregation happens in analytics.
package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nycdash/ridership-dashboard/internal/models"
)

// Chart series palette.
const (
	colorLine      = "#636EFA"
	colorStations  = "#00CC96"
	colorTransfers = "#EF553B"
)

const (
	chartWidth  = "580px"
	chartHeight = "380px"
	wideWidth   = "1200px"
)

// HourlyLine builds the ridership time series with a range slider.
func HourlyLine(points []models.HourlyPoint, scopeLabel, theme string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: wideWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Hourly Subway Ridership " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithColorsOpts(opts.Colors{colorLine}),
	)

	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = p.Timestamp.Format("Jan 02 15:04")
		data[i] = opts.LineData{Value: p.Ridership}
	}

	line.SetXAxis(labels).AddSeries("Total Ridership", data)
	return line
}

// ShareDonut builds a donut pie from name/value pairs (borough share overall,
// top station share within a borough).
func ShareDonut(title string, names []string, values []float64, theme string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	data := make([]opts.PieData, len(names))
	for i, name := range names {
		data[i] = opts.PieData{Name: name, Value: values[i]}
	}

	pie.AddSeries("ridership", data).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "65%"}}),
		charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {d}%"}),
	)
	return pie
}

// SpreadBoxPlot builds the hourly ridership spread per borough.
func SpreadBoxPlot(stats []models.BoxStats, scopeLabel, theme string) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Ridership Spread by Borough " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
	)

	names := make([]string, len(stats))
	data := make([]opts.BoxPlotData, len(stats))
	for i, s := range stats {
		names[i] = s.Borough
		data[i] = opts.BoxPlotData{
			Name:  s.Borough,
			Value: []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max},
		}
	}

	box.SetXAxis(names).AddSeries("hourly ridership", data)
	return box
}

// rankingBar builds a horizontal top-N bar chart. Rows arrive sorted
// descending and are reversed so the largest bar renders on top.
func rankingBar(title string, names []string, values []float64, color, theme string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithColorsOpts(opts.Colors{color}),
	)

	n := len(names)
	categories := make([]string, n)
	data := make([]opts.BarData, n)
	for i := 0; i < n; i++ {
		categories[i] = names[n-1-i]
		data[i] = opts.BarData{Value: values[n-1-i]}
	}

	bar.SetXAxis(categories).AddSeries("total", data)
	bar.XYReversal()
	return bar
}

// TopStationsBar builds the busiest-stations ranking.
func TopStationsBar(summaries []models.StationSummary, scopeLabel, theme string) *charts.Bar {
	names := make([]string, len(summaries))
	values := make([]float64, len(summaries))
	for i, s := range summaries {
		names[i] = s.Station
		values[i] = s.TotalRidership
	}
	title := fmt.Sprintf("Top %d Busiest Stations %s", len(summaries), scopeLabel)
	return rankingBar(title, names, values, colorStations, theme)
}

// TransferHubsBar builds the busiest-transfer-hubs ranking.
func TransferHubsBar(summaries []models.StationSummary, scopeLabel, theme string) *charts.Bar {
	names := make([]string, len(summaries))
	values := make([]float64, len(summaries))
	for i, s := range summaries {
		names[i] = s.Station
		values[i] = s.TotalTransfers
	}
	title := fmt.Sprintf("Top %d Transfer Hubs %s", len(summaries), scopeLabel)
	return rankingBar(title, names, values, colorTransfers, theme)
}

// StationMap plots stations on a longitude/latitude plane, symbol size and
// color scaled by total ridership.
func StationMap(summaries []models.StationSummary, scopeLabel, theme string) *charts.Scatter {
	maxRidership := 0.0
	for _, s := range summaries {
		if s.TotalRidership > maxRidership {
			maxRidership = s.TotalRidership
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Ridership Volume Map " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", Type: "value", Scale: true}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", Type: "value", Scale: true}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(maxRidership),
			InRange:    &opts.VisualMapInRange{Color: []string{"#50a3ba", "#eac736", "#d94e5d"}},
		}),
	)

	// The ridership total rides along as the third value dimension, which is
	// what the visual map colors by.
	data := make([]opts.ScatterData, len(summaries))
	for i, s := range summaries {
		size := 5
		if maxRidership > 0 {
			size += int(20 * s.TotalRidership / maxRidership)
		}
		data[i] = opts.ScatterData{
			Name:       s.Station,
			Value:      []interface{}{s.Longitude, s.Latitude, s.TotalRidership},
			SymbolSize: size,
		}
	}

	scatter.AddSeries("stations", data)
	return scatter
}

// PaymentArea builds the stacked daily ridership area chart per payment
// method.
func PaymentArea(trends []models.PaymentTrend, scopeLabel, theme string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Ridership by Payment Method " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	var dates, methods []string
	seenDate := make(map[string]bool)
	seenMethod := make(map[string]bool)
	totals := make(map[string]map[string]float64)
	for _, tr := range trends {
		if !seenDate[tr.Date] {
			seenDate[tr.Date] = true
			dates = append(dates, tr.Date)
		}
		if !seenMethod[tr.Method] {
			seenMethod[tr.Method] = true
			methods = append(methods, tr.Method)
		}
		if totals[tr.Method] == nil {
			totals[tr.Method] = make(map[string]float64)
		}
		totals[tr.Method][tr.Date] = tr.Ridership
	}
	sort.Strings(dates)
	sort.Strings(methods)

	line.SetXAxis(dates)
	for _, method := range methods {
		data := make([]opts.LineData, len(dates))
		for i, date := range dates {
			data[i] = opts.LineData{Value: totals[method][date]}
		}
		line.AddSeries(method, data,
			charts.WithLineChartOpts(opts.LineChart{Stack: "payments"}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.5}),
		)
	}
	return line
}

// WeeklyHeatmap builds the hour-by-weekday average ridership heatmap.
func WeeklyHeatmap(cells []models.HeatmapCell, days []string, scopeLabel, theme string) *charts.HeatMap {
	maxAvg := 0.0
	for _, c := range cells {
		if c.AvgRidership > maxAvg {
			maxAvg = c.AvgRidership
		}
	}

	hours := make([]string, 24)
	for h := 0; h < 24; h++ {
		hours[h] = fmt.Sprintf("%02d:00", h)
	}

	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Average Ridership by Hour and Day " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: days}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: hours}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(maxAvg),
		}),
	)

	data := make([]opts.HeatMapData, len(cells))
	for i, c := range cells {
		data[i] = opts.HeatMapData{
			Value: [3]interface{}{dayIndex[c.Day], c.Hour, int(math.Round(c.AvgRidership))},
		}
	}

	heatmap.AddSeries("avg ridership", data)
	return heatmap
}

// FareTreemap builds the payment method / fare class hierarchy rooted at
// "All Fares".
func FareTreemap(slices []models.FareSlice, scopeLabel, theme string) *charts.TreeMap {
	byMethod := make(map[string][]opts.TreeMapNode)
	var methods []string
	for _, s := range slices {
		if _, ok := byMethod[s.PaymentMethod]; !ok {
			methods = append(methods, s.PaymentMethod)
		}
		byMethod[s.PaymentMethod] = append(byMethod[s.PaymentMethod], opts.TreeMapNode{
			Name:  s.FareClass,
			Value: int(s.Ridership),
		})
	}
	sort.Strings(methods)

	children := make([]opts.TreeMapNode, len(methods))
	for i, method := range methods {
		children[i] = opts.TreeMapNode{Name: method, Children: byMethod[method]}
	}

	treemap := charts.NewTreeMap()
	treemap.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Ridership Distribution by Fare Type " + scopeLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	treemap.AddSeries("fares", []opts.TreeMapNode{{Name: "All Fares", Children: children}}).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: true}))
	return treemap
}

// ProfileScatter plots stations as ridership vs transfers, one series per
// borough so colors distinguish boroughs.
func ProfileScatter(summaries []models.StationSummary, theme string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Station Profile: Ridership vs. Transfers"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Total Ridership", Type: "value", Scale: true}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Transfers", Type: "value", Scale: true}),
	)

	maxRidership := 0.0
	for _, s := range summaries {
		if s.TotalRidership > maxRidership {
			maxRidership = s.TotalRidership
		}
	}

	byBorough := make(map[string][]opts.ScatterData)
	var boroughs []string
	for _, s := range summaries {
		if _, ok := byBorough[s.Borough]; !ok {
			boroughs = append(boroughs, s.Borough)
		}
		size := 5
		if maxRidership > 0 {
			size += int(15 * s.TotalRidership / maxRidership)
		}
		byBorough[s.Borough] = append(byBorough[s.Borough], opts.ScatterData{
			Name:       s.Station,
			Value:      []interface{}{s.TotalRidership, s.TotalTransfers},
			SymbolSize: size,
		})
	}
	sort.Strings(boroughs)

	for _, b := range boroughs {
		scatter.AddSeries(b, byBorough[b])
	}
	return scatter
}

// RidershipSunburst builds the borough -> station ridership hierarchy.
func RidershipSunburst(summaries []models.StationSummary, theme string) *charts.Sunburst {
	byBorough := make(map[string][]*opts.SunBurstData)
	var boroughs []string
	for _, s := range summaries {
		if _, ok := byBorough[s.Borough]; !ok {
			boroughs = append(boroughs, s.Borough)
		}
		byBorough[s.Borough] = append(byBorough[s.Borough], &opts.SunBurstData{
			Name:  s.Station,
			Value: s.TotalRidership,
		})
	}
	sort.Strings(boroughs)

	data := make([]opts.SunBurstData, len(boroughs))
	for i, b := range boroughs {
		data[i] = opts.SunBurstData{Name: b, Children: byBorough[b]}
	}

	sunburst := charts.NewSunburst()
	sunburst.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Ridership Proportion by Borough and Station"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	sunburst.AddSeries("ridership", data)
	return sunburst
}

// DashboardPage assembles the widgets into a single flex-layout page.
func DashboardPage(pageTitle string, widgets ...components.Charter) *components.Page {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(widgets...)
	return page
}
