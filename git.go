package baseline

import (
	"errors"
	"fmt"

	git "gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing"
	"k8s.io/klog/v2"
)

// headCommit returns the commit checked out in the repository enclosing
// dir, or an empty string when dir is not in a repository or HEAD has no
// commit yet.
func headCommit(dir string) (string, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		klog.V(2).InfoS("Not in a git repository, baseline will not record a commit", "dir", dir)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("unable to open repository: %w", err)
	}
	head, err := r.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("unable to get HEAD: %w", err)
	}
	klog.V(2).InfoS("Recorded commit", "commit", head.Hash().String())
	return head.Hash().String(), nil
}
