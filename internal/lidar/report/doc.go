// Package report renders pipeline results: a console summary, a JSON
// export, an SVG figure drawn with gonum/plot and an interactive HTML chart
// drawn with go-echarts.
package report
