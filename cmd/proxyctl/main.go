// Command proxyctl is a small administrative client for the cache proxy's
// admin HTTP surface: check status, inspect the cache, or delete an entry.
package main

import (
	"fmt"
	"os"

	"github.com/arishaaaaa/my-cache-proxy/cmd/proxyctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
