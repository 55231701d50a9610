package packaging

import (
	"os"
	"path/filepath"
	"strings"
)

// Sanitize removes hidden and transient directory subtrees (names starting
// with "." or "__", e.g. .git, __pycache__) from dir before archiving.
// Regular files outside those subtrees are left untouched.
func Sanitize(dir string) error {
	var doomed []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir || !info.IsDir() {
			return nil
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "__") {
			doomed = append(doomed, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range doomed {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return nil
}
