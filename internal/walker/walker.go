// Package walker discovers the files of a static site on disk so they can be
// imported into a project or previewed straight from a folder.
package walker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// DefaultMaxFileSize is the maximum file size to import (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path    string           // Absolute path on disk.
	RelPath string           // Slash-separated path relative to the root.
	Size    int64            // File size in bytes.
	Kind    project.FileKind // Kind derived from the extension.
}

// Config controls the behaviour of Walk.
type Config struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
	// SkipOther drops files whose kind is neither html, css nor js.
	SkipOther bool
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// metadata for every text file that passes filtering, ordered by path. It
// skips binary files, respects include/exclude patterns and honours a
// .gitignore at the root.
func Walk(config Config) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if st, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && shouldExcludeDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || shouldExcludeFile(name) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		kind := project.KindFromPath(relPath)
		if config.SkipOther && kind == project.KindOther {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: relPath,
			Size:    info.Size(),
			Kind:    kind,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// Load walks config.RootDir and reads every discovered file into a
// project.File keyed by its relative path.
func Load(config Config) ([]project.File, error) {
	infos, err := Walk(config)
	if err != nil {
		return nil, err
	}

	files := make([]project.File, 0, len(infos))
	for _, info := range infos {
		data, err := os.ReadFile(info.Path)
		if err != nil {
			return nil, fmt.Errorf("walker: reading %s: %w", info.RelPath, err)
		}
		files = append(files, project.NewFile(info.RelPath, project.FileFields{
			Kind:    info.Kind,
			Content: string(data),
		}))
	}
	return files, nil
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true // treat unreadable files as binary
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}

	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
func matchesGitignore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if !strings.Contains(pattern, "/") {
			parts := strings.Split(relPath, "/")
			for i, part := range parts {
				matched, _ := filepath.Match(pattern, part)
				if !matched {
					continue
				}
				// A directory-only pattern must match a parent, not the file.
				if !dirOnly || i < len(parts)-1 {
					return true
				}
			}
		} else {
			if matched, _ := filepath.Match(strings.TrimPrefix(pattern, "/"), relPath); matched {
				return true
			}
		}
	}
	return false
}
