// Package main provides the entry point for the frontaudit CLI.
//
// frontaudit is a static auditor for front-end files. It looks for hidden
// comments, invisibility tricks, insecure HTTP resources, suspicious CSS
// classes and eval() calls, and writes a timestamped report.
//
// Usage:
//
//	frontaudit scan
//	frontaudit scan -i ./public index.html app.js
//
// See --help for all available options.
package main

func main() {
	Execute()
}
