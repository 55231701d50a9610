package packaging

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// TemplateMarker is the string a leading comment line must carry for a file
// to be rendered as a template during packaging.
const TemplateMarker = "preprocessor:template"

// binaryExts are extensions of compiled or packed artifacts that are never
// treated as templates, whatever their leading bytes look like.
var binaryExts = map[string]bool{
	".pyc":   true,
	".so":    true,
	".o":     true,
	".a":     true,
	".zip":   true,
	".jar":   true,
	".class": true,
	".whl":   true,
}

// commentTokens are the comment leaders recognized when scanning for the
// template marker.
var commentTokens = []string{"#", "//", "--", ";"}

// TemplateRenderError reports a template that failed to parse or render.
type TemplateRenderError struct {
	Path string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("packaging: render template %s: %v", e.Path, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

// IsTemplate reports whether the file is marked for preprocessing: one of its
// leading comment lines carries TemplateMarker. Scanning stops at the first
// line that is neither blank nor a comment.
func IsTemplate(path string) (bool, error) {
	if binaryExts[strings.ToLower(filepath.Ext(path))] {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		token := commentLeader(line)
		if token == "" {
			return false, nil
		}
		if strings.Contains(line, TemplateMarker) {
			return true, nil
		}
	}
	// A scan error here most likely means binary content; such files are
	// not templates.
	return false, nil
}

func commentLeader(line string) string {
	for _, token := range commentTokens {
		if strings.HasPrefix(line, token) {
			return token
		}
	}
	return ""
}

// Preprocess renders the file in place with the given parameters if it is
// marked as a template, and leaves it byte-identical otherwise. The rendered
// output is written only after the whole render succeeds, so a failing
// template never leaves a partially written file behind.
func Preprocess(path string, params map[string]any) error {
	isTmpl, err := IsTemplate(path)
	if err != nil {
		return err
	}
	if !isTmpl {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return &TemplateRenderError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return &TemplateRenderError{Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PreprocessDir preprocesses every file under dir as a possible template.
func PreprocessDir(dir string, params map[string]any) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		return Preprocess(path, params)
	})
}
