// Package exitcode provides standardized exit codes for gifdex
package exitcode

// Exit codes for the gifdex CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	NetworkError    = 5
	DuplicateError  = 6
	GitError        = 7
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	case DuplicateError:
		return "Duplicate manifest entry"
	case GitError:
		return "Git staging error"
	default:
		return "Unknown error"
	}
}
