package main

import (
	"github.com/ColonelBlimp/gotuner/cmd"
	"github.com/ColonelBlimp/gotuner/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
