//go:build tinygo && baremetal

package main

import (
	"plcnode/app"
	"plcnode/hal"
)

func main() {
	app.Run(hal.New(), app.DefaultOptions())
}
