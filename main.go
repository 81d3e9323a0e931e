// Package main is the entry point for the pytyped CLI application.
//
// pytyped reports which direct dependencies of a Python project ship inline
// type information (a py.typed marker) so they can be checked by mypy
// without separate stub packages.
package main

import "github.com/panliu5000/mypy-dependency-recommender/cmd"

// main delegates all command parsing and execution to the cmd package.
func main() {
	cmd.Execute()
}
