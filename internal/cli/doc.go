// Package cli implements the pollboard command-line interface.
//
// The root command is "pollboard" with subcommands:
//
//	pollboard serve     - Poll the endpoint and serve the dashboard over HTTP
//	pollboard watch     - Poll the endpoint and show the dashboard in the terminal
//	pollboard fetch     - Fetch once and print the rows
//	pollboard doctor    - Diagnose config, endpoint and server problems
//	pollboard init      - Create .pollboard.yaml
//	pollboard version   - Print version information
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. serve, watch and fetch share the source flags (--url,
// --interval, --timeout) through SourceFlags, which override the config
// file and POLLBOARD_* environment.
//
// Every command builds its components through app.New; configuration
// problems are reported before any polling starts.
package cli
