package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"adds git suffix", "https://github.com/alice/hw1", "https://github.com/alice/hw1.git", false},
		{"keeps git suffix", "https://github.com/alice/hw1.git", "https://github.com/alice/hw1.git", false},
		{"trims whitespace", "  https://github.com/alice/hw1  ", "https://github.com/alice/hw1.git", false},
		{"empty", "", "", true},
		{"ssh rejected", "git@github.com:alice/hw1.git", "", true},
		{"other host rejected", "https://gitlab.com/alice/hw1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRepoURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitClonerCleanup(t *testing.T) {
	g := &GitCloner{}

	dir := t.TempDir()
	clone := filepath.Join(dir, "clone")
	require.NoError(t, os.MkdirAll(filepath.Join(clone, "src"), 0o755))

	require.NoError(t, g.Cleanup(clone))
	_, err := os.Stat(clone)
	assert.True(t, os.IsNotExist(err))

	// Empty path is a no-op
	assert.NoError(t, g.Cleanup(""))
}

func TestNewGitCloner(t *testing.T) {
	cfg := &Config{CloneTimeout: DefaultCloneTimeout, CloneDir: "/tmp/clones"}
	g := NewGitCloner(cfg)
	assert.Equal(t, DefaultCloneTimeout, g.Timeout)
	assert.Equal(t, "/tmp/clones", g.ParentDir)
}
