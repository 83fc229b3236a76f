// Package main provides the entry point for the rheumaview CLI.
//
// rheumaview composes structured rheumatology radiology reports from a
// request (patient, study, findings and prior studies) and exports them as
// plain text, PDF, DOCX, Markdown or JSON.
//
// Usage:
//
//	rheumaview compose request.yaml
//	rheumaview compose --interactive
//	rheumaview batch requests/*.yaml
//
// See --help for all available options.
package main

// main is the entry point for rheumaview.
func main() {
	Execute()
}
