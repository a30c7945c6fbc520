// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

var (
	dockerOnce      sync.Once
	dockerAvailable bool
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable. The
// probe runs once per test binary.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	dockerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dockerAvailable = exec.CommandContext(ctx, "docker", "info").Run() == nil
	})
	if !dockerAvailable {
		t.Skip("Skipping test: Docker not available")
	}
}

// CleanupContainer terminates container, logging rather than failing on
// error. Intended for t.Cleanup or defer.
func CleanupContainer(t *testing.T, container testcontainers.Container) {
	t.Helper()

	if container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}
