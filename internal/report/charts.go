package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Page geometry in mm, A4 landscape.
const (
	pageW   = 297.0
	pageH   = 210.0
	marginX = 25.0
	plotTop = 30.0
	plotH   = 120.0
)

func newChart(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("flightdata", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	return pdf
}

// axes draws the value axis from 0 to maxY with a gridline every step.
func axes(pdf *gofpdf.Fpdf, maxY, step float64, xLabel, yLabel string) {
	bottom := plotTop + plotH
	pdf.SetDrawColor(200, 200, 200)
	for v := 0.0; v <= maxY; v += step {
		y := bottom - v/maxY*plotH
		pdf.Line(marginX, y, pageW-marginX, y)
		pdf.Text(marginX-8, y+1, strconv.FormatFloat(v, 'f', 0, 64))
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(marginX, plotTop, marginX, bottom)
	pdf.Line(marginX, bottom, pageW-marginX, bottom)

	pdf.Text(pageW/2-float64(len(xLabel)), pageH-15, xLabel)
	pdf.TransformBegin()
	pdf.TransformRotate(90, 10, bottom-plotH/4)
	pdf.Text(10, bottom-plotH/4, yLabel)
	pdf.TransformEnd()
}

func bar(pdf *gofpdf.Fpdf, x, w, value, maxY float64, c rgb) {
	if value > maxY {
		value = maxY
	}
	h := value / maxY * plotH
	pdf.SetFillColor(c[0], c[1], c[2])
	pdf.Rect(x, plotTop+plotH-h, w, h, "F")
}

// WriteAirlineChart draws one bar per airline, in the order given.
func WriteAirlineChart(w io.Writer, rows []domain.DelayPercentage) error {
	pdf := newChart("Percentage of Delayed Flights by Airline")
	axes(pdf, 100, 20, "Airline", "Percentage of Delayed Flights")

	if n := len(rows); n > 0 {
		slot := (pageW - 2*marginX) / float64(n)
		for i, r := range rows {
			x := marginX + float64(i)*slot
			bar(pdf, x+slot*0.15, slot*0.7, r.DelayPercentage, 100, skyBlue)

			pdf.TransformBegin()
			lx, ly := x+slot/2, plotTop+plotH+4
			pdf.TransformRotate(30, lx, ly)
			pdf.Text(lx-pdf.GetStringWidth(r.Airline), ly, r.Airline)
			pdf.TransformEnd()
		}
	}
	return pdf.Output(w)
}

// HourBins spreads hourly rows over 24 slots. Missing hours stay 0, out of range hours are dropped.
func HourBins(rows []domain.DelayPercentage) [24]float64 {
	var bins [24]float64
	for _, r := range rows {
		if r.Hour == nil || *r.Hour < 0 || *r.Hour >= 24 {
			continue
		}
		bins[*r.Hour] = r.DelayPercentage
	}
	return bins
}

// WriteHourChart draws 24 bars coloured by their own height.
func WriteHourChart(w io.Writer, rows []domain.DelayPercentage) error {
	pdf := newChart("Flight Delay Percentage by Hour")
	axes(pdf, 100, 20, "Hour of the Day", "Percentage of Delayed Flights (%)")

	bins := HourBins(rows)
	slot := (pageW - 2*marginX) / 24
	for h, v := range bins {
		x := marginX + float64(h)*slot
		bar(pdf, x+slot*0.1, slot*0.8, v, 100, gradient(yellowGreenBlue, v/100))
		label := strconv.Itoa(h)
		pdf.Text(x+slot/2-pdf.GetStringWidth(label)/2, plotTop+plotH+5, label)
	}
	legend(pdf, yellowGreenBlue, "Delay Percentage (%)")
	return pdf.Output(w)
}

// AirportMatrix lays out delay percentages as sorted origins by sorted destinations.
func AirportMatrix(rows []domain.DelayPercentage) (origins, destinations []string, matrix [][]float64) {
	oSet := map[string]struct{}{}
	dSet := map[string]struct{}{}
	for _, r := range rows {
		oSet[r.OriginAirport] = struct{}{}
		dSet[r.DestinationAirport] = struct{}{}
	}
	origins = sortedKeys(oSet)
	destinations = sortedKeys(dSet)

	oIdx := index(origins)
	dIdx := index(destinations)
	matrix = make([][]float64, len(origins))
	for i := range matrix {
		matrix[i] = make([]float64, len(destinations))
	}
	for _, r := range rows {
		matrix[oIdx[r.OriginAirport]][dIdx[r.DestinationAirport]] = r.DelayPercentage
	}
	return origins, destinations, matrix
}

// WriteAirportsHeatmap draws the origin by destination matrix, darker cells for higher delay shares.
func WriteAirportsHeatmap(w io.Writer, rows []domain.DelayPercentage) error {
	pdf := newChart("Flight Delay Percentage by Origin and Destination Airport")
	origins, destinations, matrix := AirportMatrix(rows)

	if len(origins) > 0 && len(destinations) > 0 {
		gridW := pageW - 2*marginX - 30
		cellW := gridW / float64(len(destinations))
		cellH := plotH / float64(len(origins))
		fontSize := min(8, max(2, cellH*2))
		pdf.SetFontSize(fontSize)

		for i, origin := range origins {
			y := plotTop + float64(i)*cellH
			pdf.Text(marginX-pdf.GetStringWidth(origin)-1, y+cellH/2+1, origin)
			for j := range destinations {
				c := gradient(reds, matrix[i][j]/100)
				pdf.SetFillColor(c[0], c[1], c[2])
				pdf.SetDrawColor(255, 255, 255)
				pdf.Rect(marginX+float64(j)*cellW, y, cellW, cellH, "FD")
			}
		}
		for j, dest := range destinations {
			lx, ly := marginX+float64(j)*cellW+cellW/2, plotTop+plotH+2
			pdf.TransformBegin()
			pdf.TransformRotate(-90, lx, ly)
			pdf.Text(lx, ly, dest)
			pdf.TransformEnd()
		}
		pdf.SetFontSize(8)
	}
	pdf.Text(pageW/2-15, pageH-8, "Destination Airport")
	pdf.Text(5, plotTop-4, "Origin Airport")
	legend(pdf, reds, "Delay Percentage (%)")
	return pdf.Output(w)
}

// legend draws a vertical 0-100 colour bar at the right edge.
func legend(pdf *gofpdf.Fpdf, stops []rgb, label string) {
	const steps = 50
	x := pageW - marginX + 5
	h := plotH / steps
	for i := 0; i < steps; i++ {
		c := gradient(stops, 1-float64(i)/float64(steps-1))
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.Rect(x, plotTop+float64(i)*h, 6, h+0.1, "F")
	}
	for v := 0; v <= 100; v += 20 {
		y := plotTop + plotH - float64(v)/100*plotH
		pdf.Text(x+7, y+1, fmt.Sprintf("%d", v))
	}
	pdf.TransformBegin()
	pdf.TransformRotate(90, x+14, plotTop+plotH/2+20)
	pdf.Text(x+14, plotTop+plotH/2+20, label)
	pdf.TransformEnd()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func index(keys []string) map[string]int {
	out := make(map[string]int, len(keys))
	for i, k := range keys {
		out[k] = i
	}
	return out
}
