package main

import (
	"os"

	"github.com/supporttools/BackupConsole/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
