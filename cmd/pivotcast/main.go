package main

import (
	"pivotcast/cmd/cmd"
	"pivotcast/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
