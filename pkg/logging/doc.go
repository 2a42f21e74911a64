// Package logging configures log/slog for the powercap binaries.
//
// Every record is JSON on stderr and carries the binary name under "module"
// and its build version under "version". At debug level the source location
// is added as well.
//
// # Levels
//
// ParseLogLevel accepts debug, info, warn (or warning) and error in any case.
// Anything else, including the empty string, is info.
//
// The CLI takes the level from --log-level, which reads LOG_LEVEL by default:
//
//	LOG_LEVEL=debug powercap info --recurse
//	powercap --debug set --constraint long --power-limit 95000000
//
// The daemon reads LOG_LEVEL directly through SetDefaultStructuredLogger.
//
// # Usage
//
//	logging.SetDefaultStructuredLogger("powercapd", version)
//	slog.Info("packages opened", "count", len(pkgs))
//
// A logger that is not installed as the default:
//
//	logger := logging.NewStructuredLogger("exporter", version, "warn")
//
// Library packages never install a logger. They log through the slog
// default, so descriptor open decisions show up at debug, constraint order
// repair at warn, and hard open failures at error, all in the binary's format:
//
//	{"time":"...","level":"WARN","msg":"constraint order repaired","module":"powercap","version":"dev","package":0,"zone":"dram"}
//
// NewLogLogger bridges the default handler to the standard log package for
// APIs such as http.Server.ErrorLog.
package logging
