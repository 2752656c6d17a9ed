// Package main is the entry point for the injuryboard application
package main

import (
	"github.com/ethpandaops/injuryboard/cmd"
)

func main() {
	cmd.Execute()
}
