package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSource validates a source browser name from the command line.
// Only the two supported formats are accepted.
func ValidateSource(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "arc", "zen":
		return nil
	case "":
		return New(ErrCodeInvalidSource, "source cannot be empty")
	default:
		return New(ErrCodeInvalidSource, "unknown source %q (supported: arc, zen)", name)
	}
}

// backupTimestampRegex matches the on-disk backup suffix format YYYYMMDD_HHMMSS.
var backupTimestampRegex = regexp.MustCompile(`^\d{8}_\d{6}$`)

// ValidateBackupTimestamp validates a backup timestamp argument.
// An empty timestamp is allowed and means "the latest backup".
func ValidateBackupTimestamp(ts string) error {
	if ts == "" {
		return nil
	}
	if !backupTimestampRegex.MatchString(ts) {
		return New(ErrCodeInvalidInput, "invalid backup timestamp %q (expected YYYYMMDD_HHMMSS)", ts)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateWorkspaceName validates a space/workspace name before it is used
// as a matching key. Names are trimmed by callers; this rejects the ones
// that would still be unusable afterward.
func ValidateWorkspaceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "workspace name cannot be blank")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "workspace name contains control characters")
		}
	}

	return nil
}
