package main

import (
	"os"

	"github.com/brickingsoft/fio/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
