package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/docnest/docnest/internal/errors"
)

// attachmentsDirName is the workspace subdirectory holding copied files.
const attachmentsDirName = "attachments"

// RootProvider yields the directory under which staging workspaces are
// created. Injected so tests can redirect staging to an isolated
// temporary location.
type RootProvider func() (string, error)

// DataDirRoot stages workspaces under <dataDir>/staging.
func DataDirRoot(dataDir string) RootProvider {
	return func() (string, error) {
		return filepath.Join(dataDir, "staging"), nil
	}
}

// TempRoot stages workspaces under the system temp directory.
func TempRoot() RootProvider {
	return func() (string, error) {
		return filepath.Join(os.TempDir(), "docnest-staging"), nil
	}
}

// Workspace is an ephemeral staging directory owned by exactly one
// export call. It must be either packaged into the final archive or
// discarded via Remove; a leftover workspace is never a completed export.
type Workspace struct {
	path string
}

// NewWorkspace allocates a uniquely named workspace under the provider's
// root with the attachments subdirectory pre-created. Names are keyed by
// a nanosecond timestamp so concurrent or rapid successive exports get
// distinct directories.
func NewWorkspace(root RootProvider) (*Workspace, error) {
	rootDir, err := root()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStagingFailed, "failed to determine staging root", err)
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, "failed to create staging root", err)
	}

	var path string
	for attempt := 0; ; attempt++ {
		path = filepath.Join(rootDir, fmt.Sprintf("export-%d", time.Now().UnixNano()))
		err := os.Mkdir(path, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) || attempt >= 10 {
			return nil, apperrors.Wrap(apperrors.ErrIO, "failed to create staging workspace", err)
		}
	}

	if err := os.Mkdir(filepath.Join(path, attachmentsDirName), 0755); err != nil {
		os.RemoveAll(path)
		return nil, apperrors.Wrap(apperrors.ErrIO, "failed to create attachments directory", err)
	}

	return &Workspace{path: path}, nil
}

// Path returns the workspace directory.
func (w *Workspace) Path() string {
	return w.path
}

// AttachmentsDir returns the directory copied attachment files live under.
func (w *Workspace) AttachmentsDir() string {
	return filepath.Join(w.path, attachmentsDirName)
}

// Remove discards the workspace and everything staged in it.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.path)
}
