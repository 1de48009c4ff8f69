package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// errDecode marks files whose bytes are not valid UTF-8 text.
var errDecode = errors.New("content is not valid UTF-8")

// ScanRepository walks the repository tree and returns the matching source
// files with their line counts, in discovery order. Directories matching an
// exclusion pattern are pruned without descending, so virtual environments
// never inflate the walk.
func ScanRepository(ctx context.Context, cfg *contract.Config, repoPath string) ([]schema.SourceFile, error) {
	info, err := os.Stat(repoPath)
	if err != nil {
		return nil, fmt.Errorf("repository path %s does not exist", repoPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository path %s is not a directory", repoPath)
	}

	paths, err := collectFilePaths(ctx, cfg, repoPath)
	if err != nil {
		return nil, err
	}

	return countFiles(ctx, cfg, repoPath, paths), nil
}

// collectFilePaths gathers the relative paths of files that pass the
// extension and exclusion filters.
func collectFilePaths(ctx context.Context, cfg *contract.Config, repoPath string) ([]string, error) {
	extSet := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extSet[ext] = struct{}{}
	}

	var paths []string
	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable entry should not sink the whole scan
			contract.LogWarn("Skipping unreadable entry "+path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(repoPath, path)
		if relErr != nil {
			return relErr
		}
		rel = contract.NormalizeRelPath(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || cfg.Matcher.MatchDir(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if _, ok := extSet[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		if cfg.Matcher.MatchFile(rel) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// countFiles runs the line counter over all files using a worker pool.
// Each worker writes to a unique index, so discovery order is preserved
// without post-hoc sorting.
func countFiles(ctx context.Context, cfg *contract.Config, repoPath string, paths []string) []schema.SourceFile {
	counter := NewLineCounter(cfg)
	results := make([]schema.SourceFile, len(paths))
	indexCh := make(chan int, len(paths))

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Go(func() {
			for i := range indexCh {
				if ctx.Err() != nil {
					results[i] = schema.SourceFile{Path: paths[i]}
					continue
				}
				results[i] = countOneFile(counter, repoPath, paths[i])
			}
		})
	}

	for i := range paths {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return results
}

// countOneFile reads and counts a single file. An unreadable or non-UTF-8
// file stays in the result as a zero-weight entry so it still shows up in
// the file details without moving the grade.
func countOneFile(counter *LineCounter, repoPath, rel string) schema.SourceFile {
	content, err := os.ReadFile(filepath.Join(repoPath, filepath.FromSlash(rel)))
	if err != nil {
		contract.LogWarn("Cannot read "+rel, err)
		return schema.SourceFile{Path: rel}
	}
	if !utf8.Valid(content) {
		contract.LogWarn("Cannot decode "+rel, errDecode)
		return schema.SourceFile{Path: rel}
	}
	raw, effective := counter.Count(content)
	return schema.SourceFile{
		Path:           rel,
		RawLines:       raw,
		EffectiveLines: effective,
	}
}
