package main

import "github.com/u-blox/arrayify/cmd"

// main is the entry point of the arrayify CLI application.
// It executes the root command which handles argument parsing and flag dispatch.
func main() {
	cmd.Execute()
}
