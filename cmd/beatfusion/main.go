// beatfusion votes, fuses and scores heartbeat classifier outputs against
// AAMI N/S/V/F labels.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Errorw("Exiting", "error", err)
		log.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Sync()
}
