// Command relay inspects relay.yaml configuration and runs dispatch demos.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/relay/cmd/relay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
