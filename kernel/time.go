package kernel

// TickFrequency is the system tick rate in Hz. The tick source must be
// configured to match.
const TickFrequency uint32 = 100

// The conversion family rounds upward to the next whole unit so a
// requested delay is never under-counted. All arithmetic is 32-bit
// unsigned; inputs must stay within one wrap period.

// S2ST converts seconds to system ticks.
func S2ST(sec uint32) Systime {
	return Systime(sec * TickFrequency)
}

// MS2ST converts milliseconds to system ticks, rounding up.
func MS2ST(msec uint32) Systime {
	return Systime((msec*TickFrequency + 999) / 1000)
}

// US2ST converts microseconds to system ticks, rounding up.
func US2ST(usec uint32) Systime {
	return Systime((usec*TickFrequency + 999999) / 1000000)
}

// ST2S converts system ticks to seconds, rounding up.
func ST2S(n Systime) uint32 {
	return (uint32(n) + TickFrequency - 1) / TickFrequency
}

// ST2MS converts system ticks to milliseconds, rounding up.
func ST2MS(n Systime) uint32 {
	return (uint32(n)*1000 + TickFrequency - 1) / TickFrequency
}

// ST2US converts system ticks to microseconds, rounding up.
func ST2US(n Systime) uint32 {
	return (uint32(n)*1000000 + TickFrequency - 1) / TickFrequency
}
