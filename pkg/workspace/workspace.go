package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openbrine/brine/pkg/artifacts"
	"github.com/openbrine/brine/pkg/telemetry"
)

// Output names relative to the working directory.
const (
	// DefaultSourceFile is the Brinefile read when no override is given.
	DefaultSourceFile = "Brinefile"

	// ManifestFile is the generated Salt state file.
	ManifestFile = "init.sls"

	// ReadmeFile is the generated README.
	ReadmeFile = "README.md"

	// FilesDir holds file-content payloads the author adds later.
	FilesDir = "files"

	// MapsDir holds the version-map artifact.
	MapsDir = "maps"
)

// Workspace reads the Brinefile from, and writes all artifacts into,
// one working directory.
type Workspace struct {
	dir string
}

// New creates a Workspace rooted at dir.
func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

// ReadSource reads the Brinefile text.
func (w *Workspace) ReadSource(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// Artifacts is the full output of one generation run, already rendered.
type Artifacts struct {
	// Manifest is the init.sls body.
	Manifest string

	// Readme is the README.md body.
	Readme string

	// Versions are this document's version-map entries, merged into the
	// prior on-disk map. Empty when no package pins a version.
	Versions artifacts.VersionMap

	// WantFilesDir requests the files/ payload skeleton (set when the
	// document has a %files section).
	WantFilesDir bool
}

// Write lays down every artifact of a run. Callers only reach this with
// a validated document, so nothing here is conditional on input errors;
// any failure is an I/O failure.
func (w *Workspace) Write(ctx context.Context, a Artifacts) error {
	logger := telemetry.FromContext(ctx).NewComponentLogger("workspace")

	if a.WantFilesDir {
		if err := os.MkdirAll(filepath.Join(w.dir, FilesDir), 0o755); err != nil {
			return fmt.Errorf("failed to create %s/: %w", FilesDir, err)
		}
	}

	if err := w.writeFileAtomic(ManifestFile, []byte(a.Manifest)); err != nil {
		return err
	}
	logger.WithField("file", ManifestFile).Debug("wrote manifest")

	if err := w.writeFileAtomic(ReadmeFile, []byte(a.Readme)); err != nil {
		return err
	}
	logger.WithField("file", ReadmeFile).Debug("wrote readme")

	if len(a.Versions) > 0 {
		if err := w.mergeVersionMap(a.Versions); err != nil {
			return err
		}
		logger.WithField("file", artifacts.VersionMapFile).
			WithField("entries", len(a.Versions)).
			Debug("merged version map")
	}

	return nil
}

// mergeVersionMap is the read-merge-write step: prior unrelated entries
// survive, matching keys take the new value, and the replacement is a
// rename so readers never observe a partial file.
func (w *Workspace) mergeVersionMap(versions artifacts.VersionMap) error {
	if err := os.MkdirAll(filepath.Join(w.dir, MapsDir), 0o755); err != nil {
		return fmt.Errorf("failed to create %s/: %w", MapsDir, err)
	}

	path := filepath.Join(w.dir, artifacts.VersionMapFile)
	merged, err := artifacts.LoadVersionMap(path)
	if err != nil {
		return err
	}
	merged.Merge(versions)

	data, err := merged.Encode()
	if err != nil {
		return err
	}
	return w.writeFileAtomic(artifacts.VersionMapFile, data)
}

// writeFileAtomic writes into a temp file in the target directory and
// renames it over the destination. Rename within one directory is
// atomic on POSIX filesystems.
func (w *Workspace) writeFileAtomic(name string, data []byte) error {
	dst := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(name)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
