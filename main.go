package main

import (
	"os"

	"github.com/permgate/permgate/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
