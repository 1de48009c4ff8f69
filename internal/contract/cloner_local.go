package contract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// GitCloner clones repositories with the system git binary. Clones are
// shallow since grading only reads the working tree at HEAD.
type GitCloner struct {
	Timeout   time.Duration
	ParentDir string // "" means the system temp directory
}

// NewGitCloner builds a cloner from the validated config.
func NewGitCloner(cfg *Config) *GitCloner {
	return &GitCloner{Timeout: cfg.CloneTimeout, ParentDir: cfg.CloneDir}
}

// NormalizeRepoURL validates a submission URL and appends the ".git" suffix
// when missing. Only HTTPS GitHub URLs are accepted, which keeps credential
// prompts out of unattended batch runs.
func NormalizeRepoURL(repoURL string) (string, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return "", fmt.Errorf("repository URL is empty")
	}
	if !strings.HasPrefix(repoURL, "https://github.com/") {
		return "", fmt.Errorf("repository URL %q must start with https://github.com/", repoURL)
	}
	if !strings.HasSuffix(repoURL, ".git") {
		repoURL += ".git"
	}
	return repoURL, nil
}

// Clone fetches the repository into a fresh directory under ParentDir and
// returns the directory path. The caller owns cleanup.
func (g *GitCloner) Clone(ctx context.Context, repoURL string) (string, error) {
	normalized, err := NormalizeRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	dest, err := os.MkdirTemp(g.ParentDir, "repograde-clone-")
	if err != nil {
		return "", fmt.Errorf("cannot create clone directory: %w", err)
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--quiet", normalized, dest)
	// Fail fast instead of hanging on username/password prompts
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(dest)
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("clone of %s timed out after %s", normalized, g.Timeout)
		}
		return "", fmt.Errorf("git clone %s failed: %v: %s", normalized, err, strings.TrimSpace(string(out)))
	}

	return dest, nil
}

// Cleanup removes a cloned repository tree.
func (g *GitCloner) Cleanup(clonePath string) error {
	if clonePath == "" {
		return nil
	}
	return os.RemoveAll(clonePath)
}
