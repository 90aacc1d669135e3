// Package git answers the question commit gating needs: which files
// are staged right now. It wraps go-git so discovery works without
// shelling out to a git binary.
package git

import (
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
)

// Operations provides repository queries for one project root. The
// project root must be the repository root; nested .hookrunner
// directories are not resolved against parent repositories.
type Operations struct {
	repoPath string
}

// NewOperations creates a git operations instance rooted at repoPath
func NewOperations(repoPath string) *Operations {
	return &Operations{
		repoPath: repoPath,
	}
}

// IsGitRepository checks if the path is a git repository
func (o *Operations) IsGitRepository() bool {
	_, err := git.PlainOpen(o.repoPath)
	return err == nil
}

// CurrentBranch returns the short name of the checked-out branch
func (o *Operations) CurrentBranch() (string, error) {
	repo, err := git.PlainOpen(o.repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref.Name().Short(), nil
}

// StagedFiles returns the paths staged for the next commit, sorted,
// relative to the repository root with forward slashes. Staged
// deletions are skipped since there is no content left to validate.
func (o *Operations) StagedFiles() ([]string, error) {
	repo, err := git.PlainOpen(o.repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var files []string
	for path, fileStatus := range status {
		if isStagedForValidation(fileStatus.Staging) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// isStagedForValidation reports whether the index state leaves content
// to run checks against.
func isStagedForValidation(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Renamed, git.Copied:
		return true
	default:
		return false
	}
}
