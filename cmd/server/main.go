// Package main implements the flashlists server and its command line:
// serving the HTTP API, running database migrations and generating cards
// from text files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
