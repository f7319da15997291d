// Package projectlock serializes check-and-install runs on one project
// directory across processes with an advisory file lock.
package projectlock

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/npm-check-install/internal/messages"
)

type fileLock struct {
	file *os.File
}

var flockFn = unix.Flock

var (
	waitTimeout = 30 * time.Second
	pollEvery   = 100 * time.Millisecond
)

// Path returns the lock file used for the project at dir, inside the
// per-user cache directory so the project tree is left untouched.
func Path(dir string) (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.LockDirFmt, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(dir)))
	return filepath.Join(cache, "npm-check-install", "locks", fmt.Sprintf("%x.lock", sum[:8])), nil
}

// With acquires the lock for the project at dir, runs fn, and releases the lock.
func With(ctx context.Context, dir string, logger *slog.Logger, fn func() error) error {
	path, err := Path(dir)
	if err != nil {
		return err
	}
	lock, err := acquire(ctx, path, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.release()
	}()
	return fn()
}

// acquire opens or creates path and takes an exclusive lock, polling until
// waitTimeout elapses or ctx is done. A symlink at path is refused.
func acquire(ctx context.Context, path string, logger *slog.Logger) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|unix.O_NOFOLLOW, 0o600)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(ctx, file, path, logger); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &fileLock{file: file}, nil
}

func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func lockFile(ctx context.Context, file *os.File, path string, logger *slog.Logger) error {
	deadline := time.Now().Add(waitTimeout)
	waiting := false
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, waitTimeout)
		}
		if !waiting && logger != nil {
			logger.Info(messages.LogWaitingForLock, "path", path)
			waiting = true
		}
		timer := time.NewTimer(pollEvery)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
