package main

import "github.com/scrollflux/scrollflux/cmd"

func main() {
	cmd.Execute()
}
