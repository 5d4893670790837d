// Package session wires one editing session together: the project loaded
// from the blob store, the editor store over it, the command manager with
// its journal and metrics observers, and the registry and shortcut table
// that turn script lines into commands.
//
// Environment holds the long-lived dependencies built from configuration.
// Open loads a project into a Session; Run interprets one script line;
// Close stops the manager and flushes metrics.
package session
