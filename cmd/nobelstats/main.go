// Package main provides the entry point for the nobelstats CLI.
//
// nobelstats reads a CSV table of Nobel Prize laureates, answers six
// questions about it and draws three charts.
//
// Usage:
//
//	nobelstats
//	nobelstats --data other.csv --json
//	nobelstats a.csv b.csv --jobs 2
//
// See --help for all available options.
package main

// main is the entry point for nobelstats.
func main() {
	Execute()
}
