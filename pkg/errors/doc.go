// Package errors provides the error types and exit codes used by pytyped.
//
// This package consolidates error handling into a single location:
//   - ManifestReadError: The requirements manifest could not be read (fatal)
//   - DownloadError: The package download command failed for one package
//   - ArchiveFormatError: The downloaded artifact has an unrecognized suffix
//   - ArchiveReadError: The artifact could not be opened or iterated
//   - ExitError: Command exit with specific exit code
//   - PartialSuccessError: Some packages were checked, some failed
//
// Per-package errors (DownloadError, ArchiveFormatError, ArchiveReadError) are
// converted into report data by the runner and never abort a batch. Only
// ManifestReadError and configuration errors stop the command.
//
// Error Display:
//
//	errors.PrintErrorWithHints(os.Stderr, errs, verbose)
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): Every package was inspected without error
//   - ExitPartialFailure (1): Some packages failed inspection
//   - ExitFailure (2): All packages failed or a critical error occurred
//   - ExitConfigError (3): Configuration, manifest or preflight error
package errors
