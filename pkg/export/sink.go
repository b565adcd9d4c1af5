/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
)

const exportDirPerms = 0o750

// Artifact describes a file that was written by the exporter.
type Artifact struct {
	Name string
	Path string
	MIME string
	Size int
}

// Sink stores finished artifacts.
type Sink interface {
	Save(name, mime string, data []byte) (Artifact, error)
}

// FileSink writes artifacts into Dir. A file only appears under its final name
// once its content has been fully written and synced.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Save(name, mime string, data []byte) (art Artifact, err error) {
	if len(data) == 0 {
		return Artifact{}, ErrEmptyArtifact
	}

	if err = os.MkdirAll(s.Dir, exportDirPerms); err != nil {
		return Artifact{}, fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*.tmp")
	if err != nil {
		return Artifact{}, fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	closed := false

	defer func() {
		if !closed {
			_ = tmp.Close()
		}

		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", name, err)
	}

	if err = tmp.Sync(); err != nil {
		return Artifact{}, fmt.Errorf("sync %s: %w", name, err)
	}

	closed = true

	if err = tmp.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close %s: %w", name, err)
	}

	path := filepath.Join(s.Dir, name)

	if err = os.Rename(tmpPath, path); err != nil {
		return Artifact{}, fmt.Errorf("rename %s: %w", name, err)
	}

	return Artifact{Name: name, Path: path, MIME: mime, Size: len(data)}, nil
}
