package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// wrapperKeys are the object keys under which models tend to nest the file
// array, in lookup order.
var wrapperKeys = []string{"files", "result", "code", "data", "output"}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return raw
	}
	// Remove first line (```json) and last line (```)
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

// parsePlan parses the design analysis output.
func parsePlan(raw string) (*SitePlan, error) {
	var plan SitePlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}
	return &plan, nil
}

// parseFiles parses the code generation output. It accepts a bare array, a
// single file object, or an object wrapping the array under one of
// wrapperKeys.
func parseFiles(raw string) ([]project.File, error) {
	raw = stripFences(raw)

	var entries []generatedFile
	switch {
	case strings.HasPrefix(raw, "["):
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return nil, fmt.Errorf("json parse: %w", err)
		}
	case strings.HasPrefix(raw, "{"):
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("json parse: %w", err)
		}
		found := false
		for _, key := range wrapperKeys {
			inner, ok := obj[key]
			if !ok || !strings.HasPrefix(strings.TrimSpace(string(inner)), "[") {
				continue
			}
			if err := json.Unmarshal(inner, &entries); err != nil {
				return nil, fmt.Errorf("json parse %q: %w", key, err)
			}
			found = true
			break
		}
		if !found {
			var single generatedFile
			if err := json.Unmarshal([]byte(raw), &single); err != nil {
				return nil, fmt.Errorf("json parse: %w", err)
			}
			entries = []generatedFile{single}
		}
	default:
		return nil, errors.New("output is not JSON")
	}

	files := make([]project.File, 0, len(entries))
	for _, e := range entries {
		p := cleanPath(e.Path)
		if p == "" {
			continue
		}
		kind := e.Kind
		if kind == "" {
			kind = e.Type
		}
		f := project.File{Path: p, Name: e.Name, Content: e.Content}
		if kind != "" {
			f.Kind = project.ParseKind(kind)
		}
		f.Normalize()
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}

// merge overlays generated on base by path. Paths only in generated are
// appended in their order.
func merge(base, generated []project.File) []project.File {
	out := make([]project.File, len(base))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, f := range out {
		index[f.Path] = i
	}
	for _, f := range generated {
		if i, ok := index[f.Path]; ok {
			out[i] = f
			continue
		}
		index[f.Path] = len(out)
		out = append(out, f)
	}
	return out
}
