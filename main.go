package main

import (
	"github.com/flagscope/flagscope/cmd"
)

func main() {
	cmd.Execute()
}
