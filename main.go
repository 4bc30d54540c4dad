package main

import "github.com/scrollflux/scrollflux/cmd"

// main is the entry point for the scrollflux CLI.
func main() {
	cmd.Execute()
}
