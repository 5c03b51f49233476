// Package files holds small filesystem helpers used by hub.
package files

import "os"

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
