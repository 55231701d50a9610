package main

import (
	"fmt"
	"os"
)

var version = "dev"

var commands = map[string]func([]string) error{
	"resolve": runResolve,
	"package": runPackage,
	"version": runVersion,
}

func usage() {
	fmt.Fprintf(os.Stderr, `humilis - reference resolution and artifact packaging (version %s)

Usage:
  humilis <command> [options]

Commands:
  resolve    Resolve the references declared in a layer meta file
  package    Build a deployment package from a local source
  version    Print the humilis version

Run 'humilis <command> -h' for command options.
`, version)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runVersion(_ []string) error {
	fmt.Println(version)
	return nil
}
