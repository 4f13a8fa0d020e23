package main

import (
	"github.com/mumoshu/patchwork/cmd"
)

func main() {
	cmd.MustRun()
}
