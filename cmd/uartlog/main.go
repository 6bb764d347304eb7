package main

import (
	"github.com/robotalks/uartlog.go/pkg/cli/sh"
	"github.com/robotalks/uartlog.go/pkg/uplink"
)

//go-build: CGO_ENABLED=0

func init() {
	uplink.SetupFlags()
}

func main() {
	sh.Main()
}
