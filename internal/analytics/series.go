package analytics

type Point struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type ColoredPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

var conservationColors = map[string]string{
	"Endangered":      "#ef4444",
	"Vulnerable":      "#f97316",
	"Near Threatened": "#eab308",
	"Least Concern":   "#22c55e",
	unknownCategory:   defaultColor,
}

const defaultColor = "#6b7280"

// ConservationColor returns the display colour for a conservation status.
func ConservationColor(status string) string {
	if c, ok := conservationColors[status]; ok {
		return c
	}
	return defaultColor
}

// Series lists the counts in first-seen order.
func Series(c Counts) []Point {
	points := make([]Point, 0, c.Len())
	for _, k := range c.keys {
		points = append(points, Point{Name: k, Value: c.values[k]})
	}
	return points
}

func ConservationSeries(c Counts) []ColoredPoint {
	points := make([]ColoredPoint, 0, c.Len())
	for _, k := range c.keys {
		points = append(points, ColoredPoint{Name: k, Value: c.values[k], Color: ConservationColor(k)})
	}
	return points
}

// Charts holds every series the dashboards render.
type Charts struct {
	Vegetation     []Point        `json:"vegetation"`
	Conservation   []ColoredPoint `json:"conservation"`
	Impacts        []Point        `json:"impacts"`
	ElevationRange []Point        `json:"elevationRange"`
}

func BuildCharts(s Stats) Charts {
	return Charts{
		Vegetation:     Series(s.Vegetation),
		Conservation:   ConservationSeries(s.Conservation),
		Impacts:        Series(s.Impacts),
		ElevationRange: Series(s.ElevationRange),
	}
}
