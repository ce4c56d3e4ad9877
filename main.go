package main

import (
	"os"

	"github.com/accelerator-admin/accelerator-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
