package main

import (
	"fmt"
	"os"

	"shin5ok/simple-books-lookup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
