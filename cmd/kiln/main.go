// Package main provides the Kiln CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kiln-ml/kiln/safetensors"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Kiln import toolkit %s\n", version)
			return
		case "inspect":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: kiln inspect <file.safetensors>")
				os.Exit(2)
			}
			if err := inspect(os.Args[2]); err != nil {
				fmt.Fprintf(os.Stderr, "kiln: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Kiln - model artifact import toolkit for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version              Show version")
	fmt.Println("  inspect <file>       List tensors of a safetensors container")
}

// inspect prints the metadata and per-tensor layout of a container.
func inspect(path string) error {
	c, err := safetensors.Load(path)
	if err != nil {
		return err
	}

	if meta := c.Metadata(); len(meta) > 0 {
		fmt.Println("Metadata:")
		for k, v := range meta {
			fmt.Printf("  %s = %s\n", k, v)
		}
	}

	fmt.Printf("Tensors (%d):\n", c.Len())
	for _, name := range c.Names() {
		t, _ := c.Tensor(name)
		fmt.Printf("  %-32s %-9s shape=%v  %d bytes\n", name, t.DType(), t.Shape(), t.ByteSize())
	}
	return nil
}
