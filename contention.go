package spectrum

// isContendedPage reports whether addr falls on a page the ULA reads from
// while painting the screen (0x4000..0x7FFF on a 48K machine).
func isContendedPage(addr uint16) bool {
	return addr >= 0x4000 && addr < 0x8000
}

// screenTicksPerLine is the portion of each 224-tick scanline during which
// the ULA is reading screen memory (two pixels per tick across 256 pixels).
const screenTicksPerLine = ScreenWidth / 2

// memoryContentionDelay returns the extra ticks a memory access against
// addr at tick t must wait for, per the 48K contention formula: zero
// outside the screen-drawing window, otherwise 0 on every 8th tick and
// 6-u ticks on the other seven, where u is the tick's position within its
// 8-tick group.
func memoryContentionDelay(addr uint16, t int) int {
	if !isContendedPage(addr) {
		return 0
	}
	if t < ContentionBase || t >= ContentionBase+ContentionLines*TicksPerLine {
		return 0
	}
	d := t - ContentionBase
	if d%TicksPerLine >= screenTicksPerLine { // the other 96 of 224 ticks are border/retrace
		return 0
	}
	u := d % 8
	if u == 7 {
		return 0
	}
	return 6 - u
}

// portContentionStep is one step of an I/O cycle's contention sequence:
// contendBefore reports whether the host must first apply
// memoryContentionDelay(port, t) at the current tick t (and advance t by
// the result) before charging plainTicks.
type portContentionStep struct {
	contendBefore bool
	plainTicks    int
}

// portContentionSteps returns the sequence of steps the host must perform
// for an I/O cycle against port, per the table in the contention model:
// ports on a contended page contend before every step; an uncontended
// port with bit 0 clear contends once, before its last 3 ticks; an
// uncontended port with bit 0 set is a plain 4 ticks.
func portContentionSteps(port uint16) []portContentionStep {
	contended := isContendedPage(port)
	bit0Clear := port&1 == 0
	switch {
	case contended && bit0Clear:
		return []portContentionStep{
			{contendBefore: true, plainTicks: 1},
			{contendBefore: true, plainTicks: 3},
		}
	case contended && !bit0Clear:
		return []portContentionStep{
			{contendBefore: true, plainTicks: 1},
			{contendBefore: true, plainTicks: 1},
			{contendBefore: true, plainTicks: 1},
			{contendBefore: true, plainTicks: 1},
		}
	case !contended && bit0Clear:
		return []portContentionStep{
			{contendBefore: false, plainTicks: 1},
			{contendBefore: true, plainTicks: 3},
		}
	default:
		return []portContentionStep{
			{contendBefore: false, plainTicks: 4},
		}
	}
}
