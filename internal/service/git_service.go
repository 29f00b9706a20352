package service

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"codefit/internal/models"
	"codefit/internal/repository"
)

// CommitFunc is invoked once for each newly detected commit
type CommitFunc func(commit models.CommitRecord)

// GitService polls a local repository's HEAD and reports new commits.
// Detection is poll-based rather than hook-based so it needs no write
// access to the watched repository.
type GitService struct {
	repoPath string
	interval time.Duration
	commits  *repository.CommitRepository
	onCommit CommitFunc
	lastHash string
}

// NewGitService creates a git watcher for the given repository path
func NewGitService(repoPath string, interval time.Duration, commits *repository.CommitRepository, onCommit CommitFunc) *GitService {
	return &GitService{
		repoPath: repoPath,
		interval: interval,
		commits:  commits,
		onCommit: onCommit,
	}
}

// Run polls until the context is cancelled. The first poll seeds the
// baseline hash without reporting, so a restart never replays the current
// HEAD as a fresh commit.
func (g *GitService) Run(ctx context.Context) {
	if latest, err := g.commits.Latest(); err == nil && latest != nil {
		g.lastHash = latest.Hash
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.poll()
		}
	}
}

func (g *GitService) poll() {
	commit, err := headCommit(g.repoPath)
	if err != nil {
		log.Printf("git poll failed for %s: %v", g.repoPath, err)
		return
	}
	if commit.Hash == g.lastHash {
		return
	}

	seeding := g.lastHash == ""
	g.lastHash = commit.Hash
	if seeding {
		return
	}

	if err := g.commits.Append(commit); err != nil {
		log.Printf("failed to record commit %s: %v", commit.Hash, err)
	}
	if g.onCommit != nil {
		g.onCommit(commit)
	}
}

// headCommit reads the repository HEAD via `git log -1`
func headCommit(repoPath string) (models.CommitRecord, error) {
	cmd := exec.Command("git", "-C", repoPath, "log", "-1", "--format=%H%n%ct%n%s")
	out, err := cmd.Output()
	if err != nil {
		return models.CommitRecord{}, fmt.Errorf("git log: %w", err)
	}

	lines := strings.SplitN(strings.TrimSpace(string(out)), "\n", 3)
	if len(lines) < 3 {
		return models.CommitRecord{}, fmt.Errorf("unexpected git log output: %q", string(out))
	}

	epoch, err := strconv.ParseInt(lines[1], 10, 64)
	if err != nil {
		return models.CommitRecord{}, fmt.Errorf("parsing commit timestamp: %w", err)
	}

	return models.CommitRecord{
		Hash:    lines[0],
		Message: lines[2],
		At:      time.Unix(epoch, 0),
	}, nil
}
