// Package log provides secure logging functionality with automatic sanitization
// of patient data, built on top of the standard slog package.
//
// The SecureHandler masks attribute values before they reach the output:
//   - keys naming patient identity (name, mrn, dob, ...) or free text
//     (findings, clinical_context, emr_summary, ...)
//   - values that look like social security numbers, e-mail addresses or
//     phone numbers, whatever their key
//   - credentials, should one ever be logged
//
// Even in verbose mode, sensitive values are masked so that logs can be
// attached to a support ticket.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("age fallback", "dob", "1990-13-01") // dob=***REDACTED***
//	slog.SetDefault(logger)
package log
