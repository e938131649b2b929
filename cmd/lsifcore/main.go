// The program lsifcore generates an indexing-graph dump for a Go module.
package main

import (
	"fmt"
	"log"
	"os"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("")
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
