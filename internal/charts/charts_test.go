package charts

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRandomColorSource_Colors(t *testing.T) {
	source := NewRandomColorSource()

	colors := source.Colors(8, false)
	assert.Len(t, colors, 8)
	for _, color := range colors {
		assert.Regexp(t, hexColor, color)
	}
}

func TestRandomColorSource_IncludeBlack(t *testing.T) {
	source := NewRandomColorSource()

	colors := source.Colors(5, true)
	assert.Len(t, colors, 5)
	assert.Equal(t, "#000000", colors[4])

	// Black is only forced onto the last slot.
	assert.Regexp(t, hexColor, colors[0])
}

func TestRandomColorSource_Empty(t *testing.T) {
	source := NewRandomColorSource()

	assert.Empty(t, source.Colors(0, true))
	assert.Empty(t, source.Colors(0, false))
}

func TestDoughnut(t *testing.T) {
	payload := Doughnut(
		[]string{"Math", "Incorrect"},
		[]int{7, 3},
		[]string{"#ababab", "#000000"},
		"Results", 14,
	)

	assert.Equal(t, []string{"Math", "Incorrect"}, payload.Data.Labels)
	assert.Len(t, payload.Data.Datasets, 1)
	assert.Equal(t, []int{7, 3}, payload.Data.Datasets[0].Data)
	assert.Equal(t, []string{"#ababab", "#000000"}, payload.Data.Datasets[0].BackgroundColor)
	assert.Empty(t, payload.Data.Datasets[0].Label)

	plugins := payload.Options["plugins"].(map[string]interface{})
	assert.Equal(t, "right", plugins["legend"].(map[string]interface{})["position"])

	title := plugins["title"].(map[string]interface{})
	assert.Equal(t, "Results", title["text"])
	assert.Equal(t, 14, title["font"].(map[string]interface{})["size"])
}

func TestDoughnut_NoTitle(t *testing.T) {
	payload := Doughnut([]string{"A"}, []int{1}, []string{"#ababab"}, "", 0)

	plugins := payload.Options["plugins"].(map[string]interface{})
	assert.NotContains(t, plugins, "title")
}

func TestBar(t *testing.T) {
	payload := Bar(
		"Total Questions",
		[]string{"Routing", "Switching"},
		[]int{4, 2},
		[]string{"#ababab", "#ababab"},
		"Category Distribution", 22,
	)

	assert.Equal(t, "Total Questions", payload.Data.Datasets[0].Label)
	assert.Equal(t, []int{4, 2}, payload.Data.Datasets[0].Data)

	plugins := payload.Options["plugins"].(map[string]interface{})
	assert.Equal(t, false, plugins["legend"].(map[string]interface{})["display"])
	assert.Equal(t, "Category Distribution", plugins["title"].(map[string]interface{})["text"])

	scales := payload.Options["scales"].(map[string]interface{})
	xGrid := scales["x"].(map[string]interface{})["grid"].(map[string]interface{})
	assert.Equal(t, false, xGrid["display"])
}
