package squash

import (
	"context"
	"strings"

	"github.com/bashhack/gitwip/internal/conventional"
	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/git"
	"github.com/bashhack/gitwip/internal/logger"
)

// VCS is the subset of git primitives the collapser needs.
type VCS interface {
	Log(ctx context.Context) ([]git.Commit, error)
	Reset(ctx context.Context, mode git.ResetMode, ref string) error
	Commit(ctx context.Context, message string) error
}

// Collapser rewrites the run of snapshot commits at the tip of history into
// a single commit.
type Collapser struct {
	prefix string
	vcs    VCS
	logger logger.Logger
}

// NewCollapser creates a Collapser that treats every commit whose message
// starts with prefix as a snapshot.
func NewCollapser(prefix string, vcs VCS, log logger.Logger) *Collapser {
	return &Collapser{
		prefix: prefix,
		vcs:    vcs,
		logger: log,
	}
}

// FindAutoCommits returns the maximal run of snapshot commits starting at
// HEAD, newest first. The run ends at the first commit without the prefix.
func (c *Collapser) FindAutoCommits(ctx context.Context) ([]git.Commit, error) {
	history, err := c.vcs.Log(ctx)
	if err != nil {
		c.logger.Error("Failed to retrieve git log: %v", err)
		return nil, err
	}

	n := 0
	for n < len(history) && strings.HasPrefix(history[n].Message, c.prefix) {
		n++
	}
	return history[:n], nil
}

// Collapse replaces the snapshot run with one commit carrying finalMessage.
//
// finalMessage is validated before anything is touched. It returns false
// with a nil error when there is nothing to squash. A failed reset or commit
// is reported as is; no rollback is attempted.
func (c *Collapser) Collapse(ctx context.Context, finalMessage string) (bool, error) {
	if err := conventional.Validate(finalMessage); err != nil {
		return false, err
	}

	run, err := c.FindAutoCommits(ctx)
	if err != nil {
		return false, err
	}
	if len(run) == 0 {
		c.logger.Info("No auto-commits to squash")
		return false, nil
	}

	anchor := run[len(run)-1]
	if len(anchor.Parents) == 0 {
		c.logger.Error("Auto-commit %s is the root commit, cannot squash", anchor.Hash)
		return false, gitwipErrors.Wrapf(gitwipErrors.ErrNoParentCommit, "commit %s", anchor.Hash)
	}
	target := anchor.Parents[0]

	c.logger.Info("Squashing %d auto-commits onto %s", len(run), target)

	if err := c.vcs.Reset(ctx, git.ResetSoft, target); err != nil {
		c.logger.Error("Failed to reset to %s: %v", target, err)
		return false, err
	}

	if err := c.vcs.Commit(ctx, finalMessage); err != nil {
		c.logger.Error("Failed to create squashed commit: %v", err)
		return false, err
	}

	c.logger.Info("Squashed %d auto-commits into: %s", len(run), finalMessage)
	return true, nil
}
