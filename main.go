// Package main is the entry point for the recast CLI.
package main

import "recast.dev/pkg/recast/cmd"

func main() {
	cmd.Execute()
}
