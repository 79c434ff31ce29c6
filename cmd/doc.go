// Package cmd implements the command-line interface of csav, an inspector
// for save files made of a node tree and reflective object records.
//
// The package is organized into several subpackages:
//
//   - tree: Commands working on the node tree (dump, find, stats, verify)
//   - inspect: Commands decoding node content (object, items, facts)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment as CSAV_<FLAG>
// (e.g. CSAV_LOG_LEVEL=debug), .env and .env.local are read on start.
//
// See csav -help for a list of all commands.
package cmd
