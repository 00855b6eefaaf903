package variant

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

type baseColor struct {
	name string
	hex  string
}

// 按名称长度降序匹配，较具体的名称优先
var baseColors = sortByLength([]baseColor{
	{"negro", "#1a1a1a"},
	{"blanco", "#f5f5f5"},
	{"gris", "#888888"},
	{"rojo", "#c0392b"},
	{"azul", "#2c6fbb"},
	{"verde", "#27ae60"},
	{"amarillo", "#f1c40f"},
	{"naranja", "#e67e22"},
	{"marron", "#6d4c2f"},
	{"cafe", "#6d4c2f"},
	{"chocolate", "#5c3317"},
	{"beige", "#d4b896"},
	{"crema", "#f5e6cc"},
	{"turqueza", "#1abc9c"},
	{"turquesa", "#1abc9c"},
	{"petroleo", "#1b4f5c"},
	{"rosa", "#e84393"},
	{"morado", "#8e44ad"},
	{"lila", "#a370c4"},
	{"burdeo", "#722f37"},
	{"bordo", "#722f37"},
	{"celeste", "#74b9ff"},
	{"arena", "#c9b18c"},
	{"natural", "#c8b28a"},
	{"camel", "#c19a6b"},
	{"terracota", "#b94e31"},
	{"grafito", "#4a4a4a"},
	{"humo", "#6e6e6e"},
	{"plata", "#b0b0b0"},
	{"dorado", "#c5a44e"},
	{"cobre", "#b87333"},
	{"oliva", "#708238"},
	{"mostaza", "#c49b1a"},
	{"salmon", "#e8836b"},
	{"coral", "#e36d5e"},
	{"menta", "#7ecfb3"},
	{"lavanda", "#b39ddb"},
	{"piedra", "#8e8279"},
	{"ceniza", "#9e9e9e"},
	{"avellana", "#8b6f4e"},
	{"nogal", "#5c4033"},
	{"roble", "#8b6d3f"},
	{"cerezo", "#7b3030"},
	{"wenge", "#3c2415"},
})

var (
	materialPrefix = regexp.MustCompile(`(?i)^(felpa|lino|pu|tela|cuero|eco.?cuero|pana|terciopelo|chenille)\s+`)
	lightModifier  = regexp.MustCompile(`\bclaro\b`)
	darkModifier   = regexp.MustCompile(`\boscuro\b`)
	anyModifier    = regexp.MustCompile(`\b(claro|oscuro)\b`)
)

func sortByLength(colors []baseColor) []baseColor {
	out := append([]baseColor(nil), colors...)
	// 稳定插入排序，保持同长度名称的原始顺序
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j].name) > len(out[j-1].name); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// ResolveHex 根据颜色名称（如 "Felpa Gris Claro"）给出代表色值
func ResolveHex(name string) string {
	plain := strings.ToLower(strings.TrimSpace(materialPrefix.ReplaceAllString(name, "")))
	light := lightModifier.MatchString(plain)
	dark := darkModifier.MatchString(plain)
	base := strings.TrimSpace(anyModifier.ReplaceAllString(plain, ""))

	for _, c := range baseColors {
		if base == c.name || strings.Contains(base, c.name) {
			switch {
			case light:
				return adjustLuminosity(c.hex, 1.4)
			case dark:
				return adjustLuminosity(c.hex, 0.6)
			default:
				return c.hex
			}
		}
	}
	return hashToHex(strings.ToLower(name))
}

func adjustLuminosity(hex string, factor float64) string {
	channel := func(s string) string {
		v, _ := strconv.ParseUint(s, 16, 8)
		c := float64(v)
		if factor > 1 {
			c = math.Min(255, math.Round(c+(255-c)*(factor-1)))
		} else {
			c = math.Max(0, math.Round(c*factor))
		}
		return fmt.Sprintf("%02x", int(c))
	}
	return "#" + channel(hex[1:3]) + channel(hex[3:5]) + channel(hex[5:7])
}

func hashToHex(s string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return hslToHex(float64(h%360), 45, 45)
}

func hslToHex(h, s, l float64) string {
	s /= 100
	l /= 100
	a := s * math.Min(l, 1-l)
	f := func(n float64) string {
		k := math.Mod(n+h/30, 12)
		color := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return fmt.Sprintf("%02x", int(math.Round(255*color)))
	}
	return "#" + f(0) + f(8) + f(4)
}
