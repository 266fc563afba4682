package main

import (
	"os"

	_ "github.com/tliron/commonlog/simple"

	"github.com/salchaD-27/hotpath-check/cmd/hotpath-check/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
