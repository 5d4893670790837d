// Package main hosts the reelcut CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a project from the configured store,
// runs edit scripts through the command manager, and prints clips, effects,
// journal history, and key bindings. Configuration resolution, logging
// setup, and the session environment live in commandContext so subcommands
// only describe their own flags and output.
//
// Keep this package lean: editing behaviour belongs in internal/command and
// internal/session, and is surfaced here through dedicated commands.
package main
