package main

import (
	"os"

	"github.com/tobiajo/whirlpool/cmd/whirlpool/commands"
)

// Single-node Maelstrom participant: echo, unique ids, grow-only counter
// and single-node broadcast.
func main() {
	os.Exit(commands.Execute(commands.IO{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}))
}
