package main

import (
	"github.com/robotalks/safety-io/pkg/cli/sh"

	_ "github.com/robotalks/safety-io/pkg/cli/cmds/tester"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
