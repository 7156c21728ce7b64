package action

// settings.go contains the workspace lock that guards the fixed-name build
// settings file while a build is in flight.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LockFile is created in the work directory while a build holds the settings.
const LockFile = ".exmatrix.lock"

// ErrWorkspaceBusy is returned when another build holds the workspace lock.
var ErrWorkspaceBusy = errors.New("workspace is locked by another build")

// SettingsLease holds the workspace lock for one build.
type SettingsLease struct {
	lockPath string
}

// AcquireSettings locks workDir and copies template over dest. The lock is
// held until Release so that no other build can replace dest meanwhile. A lock
// left behind by a process that no longer exists is taken over.
func AcquireSettings(workDir, template, dest string) (*SettingsLease, error) {
	lockPath := filepath.Join(workDir, LockFile)
	if err := createLock(lockPath); err != nil {
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
		pid, alive := lockHolder(lockPath)
		if alive {
			return nil, busyError(lockPath, pid)
		}
		// the holder is gone; only one of several contenders wins the retry
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
		if err := createLock(lockPath); err != nil {
			if errors.Is(err, os.ErrExist) {
				return nil, busyError(lockPath, 0)
			}
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
	}

	lease := &SettingsLease{lockPath: lockPath}
	if err := copyFile(filepath.Join(workDir, template), filepath.Join(workDir, dest)); err != nil {
		lease.Release()
		return nil, fmt.Errorf("failed to install settings %s: %w", template, err)
	}
	return lease, nil
}

func busyError(lockPath string, pid int) error {
	holder := "another process"
	if pid > 0 {
		holder = fmt.Sprintf("pid %d", pid)
	}
	return fmt.Errorf("%s held by %s: %w (remove the file if no exmatrix build is running)", lockPath, holder, ErrWorkspaceBusy)
}

func createLock(lockPath string) error {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
	return f.Close()
}

// lockHolder returns the pid recorded in the lock file and whether that
// process still runs. An unreadable pid counts as alive.
func lockHolder(lockPath string) (int, bool) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0, !errors.Is(err, os.ErrNotExist)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, true
	}
	return pid, processAlive(pid)
}

// Release removes the workspace lock.
func (l *SettingsLease) Release() {
	if l == nil {
		return
	}
	_ = os.Remove(l.lockPath)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	// replace any previous copy
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
