package utils

import (
	"os"
	"path/filepath"
)

// EnsureArtifactDir creates the local artifacts directory if it doesn't exist
func EnsureArtifactDir() error {
	return os.MkdirAll("artifacts", os.ModePerm)
}

// SaveArtifactLocal writes an artifact payload under the local artifacts
// directory. Used when R2 is not configured.
func SaveArtifactLocal(data []byte, filename string) (string, error) {
	destPath := GetArtifactPath(filename)
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", err
	}
	return destPath, nil
}

// GetArtifactPath returns the full path for a file inside the artifacts directory
func GetArtifactPath(filename string) string {
	return filepath.Join("artifacts", filename)
}
