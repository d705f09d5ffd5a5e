// tickconv converts between wall-time units and system ticks using the
// kernel's conversion family, so delay values in code and on the bench
// agree with what the tick engine will actually count.
package main

import (
	"flag"
	"fmt"
	"os"

	"chime/kernel"
)

func main() {
	var (
		value = flag.Uint64("value", 0, "Value to convert.")
		unit  = flag.String("unit", "ms", "Unit of the input value: s|ms|us|st.")
	)
	flag.Parse()

	if *value > 0xFFFFFFFF {
		fatalf("value out of 32-bit range: %d", *value)
	}
	v := uint32(*value)

	switch *unit {
	case "s":
		fmt.Printf("%d s = %d ticks\n", v, kernel.S2ST(v))
	case "ms":
		fmt.Printf("%d ms = %d ticks\n", v, kernel.MS2ST(v))
	case "us":
		fmt.Printf("%d us = %d ticks\n", v, kernel.US2ST(v))
	case "st":
		n := kernel.Systime(v)
		fmt.Printf("%d ticks = %d s = %d ms = %d us\n",
			v, kernel.ST2S(n), kernel.ST2MS(n), kernel.ST2US(n))
	default:
		fatalf("unknown unit: %s (want s|ms|us|st)", *unit)
	}
	fmt.Printf("tick frequency: %d Hz\n", kernel.TickFrequency)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
