package draw

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLight     = '░'
)

// Color is a palette entry. The zero value is the terminal background.
type Color uint8

const (
	ColorNone Color = iota
	ColorBlue
	ColorRed
	ColorGreen
	ColorWhite
	ColorYellow
	ColorCyan
	ColorGray
)

// ColorReset restores the default terminal colors.
const ColorReset = "\033[0m"

var fgCodes = [...]string{
	ColorNone:   "\033[39m",
	ColorBlue:   "\033[94m",
	ColorRed:    "\033[91m",
	ColorGreen:  "\033[92m",
	ColorWhite:  "\033[97m",
	ColorYellow: "\033[93m",
	ColorCyan:   "\033[96m",
	ColorGray:   "\033[90m",
}

var bgCodes = [...]string{
	ColorNone:   "\033[49m",
	ColorBlue:   "\033[104m",
	ColorRed:    "\033[101m",
	ColorGreen:  "\033[102m",
	ColorWhite:  "\033[107m",
	ColorYellow: "\033[103m",
	ColorCyan:   "\033[106m",
	ColorGray:   "\033[100m",
}

// FG returns the escape sequence selecting c as the foreground color.
func (c Color) FG() string {
	if int(c) >= len(fgCodes) {
		return fgCodes[ColorNone]
	}
	return fgCodes[c]
}

// BG returns the escape sequence selecting c as the background color.
func (c Color) BG() string {
	if int(c) >= len(bgCodes) {
		return bgCodes[ColorNone]
	}
	return bgCodes[c]
}

// ParseColor maps a color name to the palette; unknown names are white.
func ParseColor(name string) Color {
	switch name {
	case "blue":
		return ColorBlue
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "yellow":
		return ColorYellow
	case "cyan":
		return ColorCyan
	case "gray":
		return ColorGray
	default:
		return ColorWhite
	}
}
