/*
Package log provides structured logging for the mod_cluster tooling using
zerolog.

A single package-level Logger is configured once by Init, normally from the
log.level and log.json settings. Components derive child loggers that carry
a fixed field so log lines can be filtered per component.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  config.Settings ──► log.Init(Config{Level, JSONOutput})   │
	│                              │                             │
	│                              ▼                             │
	│                      Global Logger                         │
	│                              │                             │
	│        ┌─────────────────────┼──────────────────────┐      │
	│        ▼                     ▼                      ▼      │
	│  WithComponent("watch")  WithTarget("1.0.0")  WithOperation│
	│                                          ("add-metric",    │
	│                                           "/subsystem=...")│
	└────────────────────────────────────────────────────────────┘

# Levels

	debug  per-element parse progress, rule evaluation
	info   accepted management operations, reloads
	warn   deprecated aliases, rejected transformations
	error  failed reloads, I/O failures

Library packages (schema, codec, transform) return errors and never log.
Logging happens where an error is handled: the management controller, the
file watcher and the CLI.

# Usage

	log.Init(log.Config{Level: log.ParseLevel("debug"), JSONOutput: true})

	logger := log.WithComponent("management")
	logger.Info().Str("type", "cpu").Msg("Load metric added")

JSON output:

	{"level":"info","component":"management","type":"cpu","time":"...","message":"Load metric added"}

Console output is used when JSONOutput is false and is meant for a
terminal.
*/
package log
