package main

import (
	"os"

	"github.com/shandysiswandi/datasweeper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
