// Package cli is the sharesaver command tree.
//
// Execute loads configuration, opens the local store and wires the services
// into an App before any command body runs; the App is torn down (metrics
// textfile written, database closed) after the command finishes, whether it
// failed or not. Command bodies are App methods and stay thin: they call one
// service and render its result.
package cli
