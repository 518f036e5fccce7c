package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimeLayout = "20060102-150405.000000"

// Backup copies the current document into dir as <name>-<timestamp>.json
// and removes the oldest copies so that at most keep remain (keep <= 0 keeps all).
// It returns the path of the new copy.
func (s *Store) Backup(dir string, keep int) (string, error) {
	s.mu.Lock()
	if _, err := s.read(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("could not read database: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create backup dir: %w", err)
	}

	prefix := backupPrefix(s.path)
	target := filepath.Join(dir, prefix+time.Now().UTC().Format(backupTimeLayout)+".json")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write backup: %w", err)
	}

	if keep > 0 {
		if err := prune(dir, prefix, keep); err != nil {
			return target, err
		}
	}
	return target, nil
}

func backupPrefix(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-"
}

// prune deletes the oldest backups beyond keep. Timestamped names sort chronologically.
func prune(dir, prefix string, keep int) error {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*.json"))
	if err != nil {
		return fmt.Errorf("could not list backups: %w", err)
	}
	if len(matches) <= keep {
		return nil
	}

	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("could not remove old backup %s: %w", old, err)
		}
	}
	return nil
}
