package main

import (
	"os"

	"github.com/sanigam/video-learning/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
