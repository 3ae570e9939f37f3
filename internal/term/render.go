package term

import (
	"strings"

	"github.com/kapitanov/chip8core/internal/vm"
)

// Indexed by top<<1 | bottom.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// render packs two pixel rows into each text line. Lines end in \r\n since
// raw mode may leave output post-processing off.
func render(frame []uint8) string {
	var sb strings.Builder
	sb.Grow(vm.ScreenHeight / 2 * (vm.ScreenWidth*3 + 2))

	lit := func(x, y int) int {
		if frame[y*vm.ScreenWidth+x] != 0 {
			return 1
		}
		return 0
	}

	for y := 0; y < vm.ScreenHeight; y += 2 {
		for x := 0; x < vm.ScreenWidth; x++ {
			sb.WriteString(halfBlocks[lit(x, y)<<1|lit(x, y+1)])
		}
		sb.WriteString("\r\n")
	}

	return sb.String()
}
