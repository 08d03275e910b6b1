package main

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// gitCache opens each repository once and keeps its worktree status, so a
// recursive listing does not recompute it for every directory.
type gitCache struct {
	repos map[string]*gitRepo // worktree root -> repo
	byDir map[string]*gitRepo // listed directory -> repo, nil outside any repo
	log   *ConsoleLogger
}

type gitRepo struct {
	root   string
	status git.Status
}

func newGitCache(log *ConsoleLogger) *gitCache {
	return &gitCache{
		repos: make(map[string]*gitRepo),
		byDir: make(map[string]*gitRepo),
		log:   log,
	}
}

// repoFor finds the repository containing dir, searching upwards for .git.
func (c *gitCache) repoFor(dir string) *gitRepo {
	if r, ok := c.byDir[dir]; ok {
		return r
	}

	var found *gitRepo
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		c.log.Debugf("no git repository for %s: %v", dir, err)
	} else if wt, err := repo.Worktree(); err != nil {
		c.log.Debugf("git repository for %s has no worktree: %v", dir, err)
	} else {
		root := wt.Filesystem.Root()
		if r, ok := c.repos[root]; ok {
			found = r
		} else if status, err := wt.Status(); err != nil {
			c.log.Warnf("could not read git status of %s: %v", root, err)
		} else {
			found = &gitRepo{root: root, status: status}
			c.repos[root] = found
		}
	}

	c.byDir[dir] = found
	return found
}

// Status returns the staged and unstaged status of f. Directories report
// the most significant status of anything beneath them. Entries outside a
// repository are unmodified.
func (c *gitCache) Status(f *File) (staged, unstaged git.StatusCode) {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return git.Unmodified, git.Unmodified
	}
	lookup := filepath.Dir(abs)
	if f.IsDir {
		// A directory may itself be the worktree root.
		lookup = abs
	}
	repo := c.repoFor(lookup)
	if repo == nil {
		return git.Unmodified, git.Unmodified
	}
	rel, err := filepath.Rel(repo.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return git.Unmodified, git.Unmodified
	}
	rel = filepath.ToSlash(rel)

	if !f.IsDir {
		if st, ok := repo.status[rel]; ok {
			return st.Staging, st.Worktree
		}
		return git.Unmodified, git.Unmodified
	}

	prefix := rel + "/"
	if rel == "." {
		prefix = ""
	}
	staged, unstaged = git.Unmodified, git.Unmodified
	for path, st := range repo.status {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		staged = moreSignificant(staged, st.Staging)
		unstaged = moreSignificant(unstaged, st.Worktree)
	}
	return staged, unstaged
}

// gitSignificance orders status codes for summarising a directory.
var gitSignificance = map[git.StatusCode]int{
	git.Unmodified:         0,
	git.Untracked:          1,
	git.Copied:             2,
	git.Renamed:            3,
	git.Deleted:            4,
	git.Added:              5,
	git.Modified:           6,
	git.UpdatedButUnmerged: 7,
}

func moreSignificant(a, b git.StatusCode) git.StatusCode {
	if gitSignificance[b] > gitSignificance[a] {
		return b
	}
	return a
}

// gitStatusChar maps a status code to its column character. Untracked
// files show as new in the unstaged column only.
func gitStatusChar(code git.StatusCode, worktree bool) byte {
	switch code {
	case git.Untracked:
		if worktree {
			return 'N'
		}
		return '-'
	case git.Added:
		return 'N'
	case git.Modified:
		return 'M'
	case git.Deleted:
		return 'D'
	case git.Renamed:
		return 'R'
	case git.Copied:
		return 'C'
	case git.UpdatedButUnmerged:
		return 'U'
	default:
		return '-'
	}
}
