package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var rgbPattern = regexp.MustCompile(`^rgba?\((\s*\d+\s*),(\s*\d+\s*),(\s*\d+\s*),?(\s*[0-9.]+\s*)?\)$`)

// HexToRGB converts #v, #rgb or #rrggbb to rgb(r,g,b). The leading # is optional.
func HexToRGB(value string) (string, error) {
	value = strings.TrimLeft(strings.TrimSpace(value), "#")
	for i := 0; i < len(value); i++ {
		if !isHexDigit(value[i]) {
			return "", inputErrorf("hex_to_rgb", "invalid hex colour %q", value)
		}
	}

	var r, g, b uint8
	switch len(value) {
	case 1:
		v, err := strconv.ParseUint(value, 16, 8)
		if err != nil {
			return "", inputErrorf("hex_to_rgb", "invalid hex colour %q", value)
		}
		r, g, b = uint8(v*17), uint8(v*17), uint8(v*17)
	case 3, 6:
		c, err := colorful.Hex("#" + value)
		if err != nil {
			return "", inputErrorf("hex_to_rgb", "invalid hex colour %q", value)
		}
		r, g, b = c.RGB255()
	default:
		return "", inputErrorf("hex_to_rgb", "hex colour must have 1, 3 or 6 digits, got %d", len(value))
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b), nil
}

// RGBToHex converts rgb(r,g,b) or rgba(r,g,b,a) to #rrggbb, ignoring alpha.
// The second return value is false when value is not a colour this function accepts.
func RGBToHex(value string) (string, bool) {
	m := rgbPattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	var comps [3]uint8
	for i := range comps {
		v, err := strconv.ParseUint(strings.TrimSpace(m[i+1]), 10, 8)
		if err != nil {
			return "", false
		}
		comps[i] = uint8(v)
	}
	c := colorful.Color{R: float64(comps[0]) / 255, G: float64(comps[1]) / 255, B: float64(comps[2]) / 255}
	return c.Hex(), true
}
