// Command imdcalc enumerates intermodulation products of a set of transmit
// frequencies.
//
// Usage:
//
//	imdcalc [flags] ORDER FREQ1 FREQ2 [FREQ3 ... FREQn]
//
// Examples:
//
//	imdcalc 3 100 110
//	imdcalc --list 5 1000 1010 1025
//	imdcalc --band 970:990 --list 3 1000 1010 1025
//	imdcalc --workers 8 --sqlite run 9 100 110 125 161
//	imdcalc --config plan.yaml
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
