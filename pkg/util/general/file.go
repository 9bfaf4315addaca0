/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package general

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// EnsureDirectory creates dir and its parents when missing.
func EnsureDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}
	return nil
}

// IsPathExists is to check this path whether exists
func IsPathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// GetUniqueLock takes an exclusive, non-blocking lock on filename.
// ErrLockHeld is returned if another process already holds it.
func GetUniqueLock(filename string) (*flock.Flock, error) {
	lockDirPath := filepath.Dir(filename)
	if err := EnsureDirectory(lockDirPath); err != nil {
		Errorf("ensure lock directory %s failed: %v", lockDirPath, err)
		return nil, err
	}

	lock := flock.New(filename)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", filename)
	}
	if !locked {
		return nil, errors.Wrapf(ErrLockHeld, "lock %s", filename)
	}

	InfofV(4, "acquired lock %s", filename)
	return lock, nil
}

// ReleaseUniqueLock release the given file lock
func ReleaseUniqueLock(lock *flock.Flock) error {
	if lock == nil {
		return nil
	}

	if err := lock.Unlock(); err != nil {
		return errors.Wrapf(err, "unlock %s", lock.Path())
	}
	InfofV(4, "released lock %s", lock.Path())
	return nil
}
