package cli

import (
	"testing"

	"github.com/m-mizutani/srafetch/pkg/cli/config"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
)

// SetArchiveClient makes the project command use client for the rest of the test
func SetArchiveClient(t *testing.T, client interfaces.ArchiveClient) {
	t.Helper()
	orig := newArchiveClient
	newArchiveClient = func(*config.Archive) interfaces.ArchiveClient { return client }
	t.Cleanup(func() { newArchiveClient = orig })
}
