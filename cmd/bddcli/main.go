package main

import (
	"os"

	"github.com/dansimau/bddcli/pkg/bddclicli"
)

func main() {
	os.Exit(bddclicli.Run(os.Args[1:]...))
}
