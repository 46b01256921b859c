// skincare-report renders personalised skincare and haircare reports.
package main

import (
	"os"

	"skincare-report/cmd/skincare-report/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
