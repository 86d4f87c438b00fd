// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/condensit/core"
)

// Loader reads source documents from the filesystem.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a document loader.
func NewLoader() *Loader {
	return &Loader{logger: slog.Default().With("component", "ingestion")}
}

// LoadDirectory reads every regular file under root, recursively, and
// returns them as source documents named by their path relative to root.
//
// The root is resolved before walking and every visited file must stay
// inside it; symlinks pointing elsewhere are rejected. Files with no
// extractable content are skipped with a warning, not treated as errors.
func (l *Loader) LoadDirectory(root string) ([]core.SourceDocument, error) {
	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var docs []core.SourceDocument
	err = filepath.WalkDir(resolved, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			// Skip hidden directories like .git
			if entry.Name() != "." && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			l.logger.Debug("skipping non-regular file", "path", path)
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		// Symlinks are followed only if their target stays inside root.
		if err := ensureWithin(resolved, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			l.logger.Warn("skipping document with no extractable content", "path", path)
			return nil
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		docs = append(docs, core.SourceDocument{
			Name:    rel,
			Content: content,
			Metadata: map[string]string{
				core.MetadataKeyFilename: rel,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, root)
	}

	l.logger.Info("loaded documents", "root", root, "count", len(docs))
	return docs, nil
}

// resolveRoot validates the input path and resolves it to an absolute,
// symlink-free directory path.
func resolveRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: empty path", core.ErrInvalidInputPath)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrInvalidInputPath, root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrInvalidInputPath, root, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrInvalidInputPath, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s: %v", core.ErrInvalidInputPath, root, ErrNotADirectory)
	}
	return resolved, nil
}

// ensureWithin rejects files whose resolved location escapes the root,
// which covers symlinks planted inside the input directory.
func ensureWithin(root, path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s escapes input directory", core.ErrInvalidInputPath, path)
	}
	return nil
}
