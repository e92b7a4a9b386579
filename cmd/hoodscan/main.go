package main

import (
	"os"

	"github.com/dshills/hoodscan/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
