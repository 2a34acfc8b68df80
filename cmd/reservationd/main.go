// Command reservationd operates the item lending reservation store: it creates the schema, sweeps
// overdue reservations once or periodically and prints reservations and item calendars.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
