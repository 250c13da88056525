package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// SidecarDir is the directory name, relative to a project root, holding
// the ProjectRef sidecar and the project's axes.toml.
const SidecarDir = ".axes"

// SidecarFile is the sidecar's file name within SidecarDir.
const SidecarFile = "project_ref"

// SidecarPath returns the sidecar path for a project rooted at dir.
func SidecarPath(projectDir string) string {
	return filepath.Join(projectDir, SidecarDir, SidecarFile)
}

// ConfigFileName is the text config's file name within SidecarDir.
const ConfigFileName = "axes.toml"

// ConfigPath returns the axes.toml path for a project rooted at dir.
func ConfigPath(projectDir string) string {
	return filepath.Join(projectDir, SidecarDir, ConfigFileName)
}

// ReadSidecar loads the ProjectRef for a project directory.
func ReadSidecar(projectDir string) (*ProjectRef, error) {
	data, err := os.ReadFile(SidecarPath(projectDir))
	if err != nil {
		return nil, err
	}
	var ref ProjectRef
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ref); err != nil {
		return nil, fmt.Errorf("index: decoding sidecar in %s: %w", projectDir, err)
	}
	return &ref, nil
}

// WriteSidecar atomically (re)writes the ProjectRef for a project
// directory, creating the .axes/ directory if needed.
func WriteSidecar(projectDir string, ref *ProjectRef) error {
	dir := filepath.Join(projectDir, SidecarDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("index: creating %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(*ref); err != nil {
		return fmt.Errorf("index: encoding sidecar: %w", err)
	}

	dest := filepath.Join(dir, SidecarFile)
	tmp, err := os.CreateTemp(dir, SidecarFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("index: creating temp sidecar: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("index: writing temp sidecar: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("index: fsyncing temp sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("index: closing temp sidecar: %w", err)
	}
	return os.Rename(tmpPath, dest)
}
