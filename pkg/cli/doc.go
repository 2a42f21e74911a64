// Package cli implements the command-line interface for powercap.
//
// # Commands
//
//	packages  Print the number of RAPL packages
//	info      Print a snapshot of packages, zones and constraints
//	get       Read one attribute of a zone or constraint
//	set       Enable or disable a zone, or change a constraint limit
//	apply     Apply a limits document to every package
//	serve     Run the exporter and snapshot API
//
// # Examples
//
// Show package 0 with its power planes:
//
//	powercap info --package 0 --recurse --format yaml
//
// Read the long-term power limit of the core plane:
//
//	powercap get --package 0 --zone core --constraint long power_limit_uw
//
// Set a 95 W long-term limit over 28 ms on the package zone:
//
//	powercap set --package 0 --constraint long --power-limit 95000000 --time-window 28000
//
// Preview a limits document without writing:
//
//	powercap apply --file limits.yaml --dry-run
//
// # Environment Variables
//
//	POWERCAP_ROOT          powercap class directory (default /sys/class/powercap)
//	POWERCAP_CONTROL_TYPE  control type (default intel-rapl)
//	LOG_LEVEL              logging verbosity (debug, info, warn, error)
//	PORT                   serve listen port
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/rapl - Package sessions and attribute access
//   - pkg/inspect - Snapshots
//   - pkg/limits - Limits documents
//   - pkg/api - Daemon mode
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/powercap/pkg/cli.version=1.0.0'"
package cli
