package preview

import (
	"context"
	"path/filepath"

	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/walker"
)

// ProjectSource is a FileSource that can also describe the project.
type ProjectSource interface {
	FileSource
	GetProject(ctx context.Context, id string) (*project.Project, error)
}

// DirSource serves the files of a folder on disk as a single project,
// re-reading the folder on every call.
type DirSource struct {
	Config walker.Config
}

// NewDirSource creates a source over the given walker configuration.
func NewDirSource(cfg walker.Config) *DirSource {
	return &DirSource{Config: cfg}
}

// ListFiles loads the folder. The project ID is ignored.
func (s *DirSource) ListFiles(_ context.Context, _ string) ([]project.File, error) {
	return walker.Load(s.Config)
}

// GetProject describes the folder as a project named after it.
func (s *DirSource) GetProject(_ context.Context, id string) (*project.Project, error) {
	abs, err := filepath.Abs(s.Config.RootDir)
	if err != nil {
		abs = s.Config.RootDir
	}
	return &project.Project{ID: id, Name: filepath.Base(abs), Description: abs}, nil
}
