// This is the main-driver for the compiler.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/skx/nimi-compiler/driver"
)

func main() {
	flag.Parse()

	d := driver.New()

	if err := d.Run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
