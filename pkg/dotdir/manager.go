// Package dotdir manages the .thehook/ directory that holds a project's
// durable session records, vector index, and configuration.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the thehook directory.
	DirName = ".thehook"

	// SessionsDirName is the subdirectory holding durable session records.
	SessionsDirName = "sessions"

	// KnowledgeDirName is the subdirectory holding consolidated knowledge
	// documents.
	KnowledgeDirName = "knowledge"

	// VectorDirName is the subdirectory holding the local vector index.
	VectorDirName = "vector"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to a .thehook/ directory.
// Order of precedence:
//  1. Provided override (treated as the project dir containing .thehook/)
//  2. Local ./.thehook/ dir
//  3. Home ~/.thehook/ dir
//
// The directory is created if it does not exist.
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = filepath.Join(overrideDir, DirName)

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, DirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, DirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating thehook directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// SessionsDir returns the sessions subdirectory for the given .thehook/ dir.
// The directory is not created; callers that write records use MkdirAll.
func SessionsDir(target string) string {
	return filepath.Join(target, SessionsDirName)
}

// KnowledgeDir returns the consolidated knowledge subdirectory for the
// given .thehook/ dir.
func KnowledgeDir(target string) string {
	return filepath.Join(target, KnowledgeDirName)
}

// VectorDir returns the vector index subdirectory for the given .thehook/ dir.
func VectorDir(target string) string {
	return filepath.Join(target, VectorDirName)
}

// localDirExists checks whether a .thehook/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}
