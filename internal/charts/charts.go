// Package charts shapes chart.js-compatible payloads for the analytics
// views. It is presentation plumbing: the aggregation code stays numeric and
// testable, color generation hides behind ColorSource.
package charts

import (
	"math/rand"
)

type Dataset struct {
	Label           string   `json:"label,omitempty"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Payload is one renderable chart: the data plus a chart.js options object.
type Payload struct {
	Data    Data                   `json:"data"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// ColorSource produces the background colors for n series entries. When
// includeBlack is set the last color is pure black so an overflow bucket
// (e.g. "Incorrect") stays visually distinct.
type ColorSource interface {
	Colors(n int, includeBlack bool) []string
}

type randomColorSource struct{}

// NewRandomColorSource returns the default ColorSource: uniform pseudo-random
// #RRGGBB values over 0..0xFFFFFF.
func NewRandomColorSource() ColorSource {
	return randomColorSource{}
}

func (randomColorSource) Colors(n int, includeBlack bool) []string {
	colors := make([]string, 0, n)
	for i := 0; i < n; i++ {
		colors = append(colors, randomHexColor())
	}
	if includeBlack && n > 0 {
		colors[n-1] = "#000000"
	}
	return colors
}

func randomHexColor() string {
	const hex = "0123456789abcdef"
	v := rand.Intn(0x1000000)
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i := 6; i >= 1; i-- {
		buf[i] = hex[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// Doughnut builds a doughnut payload with a right-hand legend and, when
// title is non-empty, a bold title of the given size.
func Doughnut(labels []string, data []int, colors []string, title string, titleSize int) Payload {
	options := map[string]interface{}{
		"responsive":          true,
		"maintainAspectRatio": true,
		"plugins": map[string]interface{}{
			"legend": map[string]interface{}{
				"position": "right",
			},
		},
	}
	if title != "" {
		options["plugins"].(map[string]interface{})["title"] = titleOptions(title, titleSize)
	}

	return Payload{
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Data:            data,
				BackgroundColor: colors,
			}},
		},
		Options: options,
	}
}

// Bar builds a labeled bar payload with hidden grid lines and legend.
func Bar(label string, labels []string, data []int, colors []string, title string, titleSize int) Payload {
	hiddenGrid := map[string]interface{}{
		"grid": map[string]interface{}{
			"display": false,
		},
	}

	return Payload{
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           label,
				Data:            data,
				BackgroundColor: colors,
			}},
		},
		Options: map[string]interface{}{
			"responsive":          true,
			"maintainAspectRatio": true,
			"scales": map[string]interface{}{
				"x": hiddenGrid,
				"y": hiddenGrid,
			},
			"plugins": map[string]interface{}{
				"title": titleOptions(title, titleSize),
				"legend": map[string]interface{}{
					"display": false,
				},
			},
		},
	}
}

func titleOptions(text string, size int) map[string]interface{} {
	return map[string]interface{}{
		"display": true,
		"text":    text,
		"font": map[string]interface{}{
			"size":   size,
			"weight": "bold",
		},
	}
}
