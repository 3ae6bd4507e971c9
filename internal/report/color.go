package report

// Delay colours on a seven step scale, greenest first.
const (
	ColorGreen      = "green"
	ColorLightGreen = "lightgreen"
	ColorBeige      = "beige"
	ColorOrange     = "orange"
	ColorLightRed   = "lightred"
	ColorRed        = "red"
	ColorDarkRed    = "darkred"
)

var colorHex = map[string]string{
	ColorGreen:      "#008000",
	ColorLightGreen: "#90ee90",
	ColorBeige:      "#f5f5dc",
	ColorOrange:     "#ffa500",
	ColorLightRed:   "#ff7f7f",
	ColorRed:        "#ff0000",
	ColorDarkRed:    "#8b0000",
}

// NormalizeDelay maps a 0-100 percentage onto the 0.02-0.33 range the colour steps are cut from.
func NormalizeDelay(pct float64) float64 {
	return 0.02 + (pct/100)*(0.33-0.02)
}

// DelayColor returns the colour name for a delay percentage.
func DelayColor(pct float64) string {
	n := NormalizeDelay(pct)
	switch {
	case n < 0.11:
		return ColorGreen
	case n < 0.14:
		return ColorLightGreen
	case n < 0.17:
		return ColorBeige
	case n < 0.21:
		return ColorOrange
	case n < 0.26:
		return ColorLightRed
	case n < 0.30:
		return ColorRed
	default:
		return ColorDarkRed
	}
}

type rgb [3]int

// gradient interpolates linearly between evenly spaced stops, t in [0,1].
func gradient(stops []rgb, t float64) rgb {
	if t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	var out rgb
	for k := range out {
		out[k] = a[k] + int(frac*float64(b[k]-a[k])+0.5)
	}
	return out
}

var (
	yellowGreenBlue = []rgb{{255, 255, 217}, {199, 233, 180}, {65, 182, 196}, {34, 94, 168}, {8, 29, 88}}
	reds            = []rgb{{255, 245, 240}, {252, 146, 114}, {239, 59, 44}, {103, 0, 13}}
	skyBlue         = rgb{135, 206, 235}
)
