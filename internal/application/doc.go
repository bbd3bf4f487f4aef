// Package application provides application initialization and dependency wiring.
// It builds the request loader from command-line options so the main package
// stays focused on CLI parsing and orchestration.
package application
