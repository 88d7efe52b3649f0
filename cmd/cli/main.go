package main

import (
	"github.com/bloatmap/cmd/cli/cmd"
)

func main() {
	cmd.Execute()
}
