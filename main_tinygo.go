//go:build tinygo

package main

import (
	"chime/app"
	"chime/hal"
)

func main() {
	app.Run(hal.New())
}
