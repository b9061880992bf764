// Package deskerror provides error inspection capabilities for helpdesk API errors.
// It centralizes the logic for identifying different types of errors returned by
// the helpdesk REST API, eliminating the need for string-based error checking
// throughout the codebase.
package deskerror
