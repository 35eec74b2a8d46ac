// Package main implements the hwtrack binary, a command-line homework
// tracker.
package main

import "github.com/bjaus/datareport/internal/cli"

func main() {
	cli.DoCLI()
}
