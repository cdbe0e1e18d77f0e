package fsutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Permission defaults for bundle output. Bundles are shipped to other users,
// so group and other get read access.
const (
	DirPerms        os.FileMode = 0o755
	FilePerms       os.FileMode = 0o644
	ExecutablePerms os.FileMode = 0o755
)

// ParseOctalString parses an octal permission string such as "755", "0755"
// or "0o755". An empty string yields fallback.
func ParseOctalString(s string, fallback os.FileMode) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}

	s = strings.TrimPrefix(s, "0o")
	s = strings.TrimPrefix(s, "0")
	if s == "" {
		return 0, nil
	}

	val, err := strconv.ParseUint(s, 8, 12)
	if err != nil {
		return fallback, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	return os.FileMode(val), nil
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(mode os.FileMode) string {
	return fmt.Sprintf("0%o", mode.Perm())
}

// IsExecutable checks if permissions include execute bit for owner
func IsExecutable(mode os.FileMode) bool {
	return mode&0o100 != 0
}
