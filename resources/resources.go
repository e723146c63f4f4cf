package resources

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yargevad/filepathx"
	"golang.org/x/sync/errgroup"
)

var ErrNoCorpus = errors.New("no corpus text found")

// CorpusReaders bounds how many corpus files are read at once.
const CorpusReaders = 8

type PathInfo struct {
	Path string
	Size int64
}

// ReadCorpus
// Reads a single text file into memory through a read-only mapping.
func ReadCorpus(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return "", err
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	// Zero length files cannot be mapped.
	if stat.Size() == 0 {
		return "", nil
	}
	data, release, err := readMmap(file)
	if err != nil {
		return "", fmt.Errorf("error trying to mmap %s: %w", path, err)
	}
	text := string(data)
	if err := release(); err != nil {
		return "", fmt.Errorf("error unmapping %s: %w", path, err)
	}
	return text, nil
}

// GlobTexts
// Given a directory path, recursively finds all `.txt` files, returning a
// slice of PathInfo sorted by path.
func GlobTexts(dirPath string) ([]PathInfo, error) {
	return globPaths(filepath.Join(dirPath, "**", "*.txt"))
}

func globPaths(pattern string) ([]PathInfo, error) {
	textPaths, err := filepathx.Glob(pattern)
	if err != nil {
		return nil, err
	}
	pathInfos := make([]PathInfo, 0, len(textPaths))
	for _, currPath := range textPaths {
		stat, statErr := os.Stat(currPath)
		if statErr != nil {
			return nil, statErr
		}
		if stat.IsDir() {
			continue
		}
		pathInfos = append(pathInfos, PathInfo{
			Path: currPath,
			Size: stat.Size(),
		})
	}
	if len(pathInfos) == 0 {
		return nil, fmt.Errorf("%s: %w", pattern, ErrNoCorpus)
	}
	sort.Slice(pathInfos, func(i, j int) bool {
		return pathInfos[i].Path < pathInfos[j].Path
	})
	return pathInfos, nil
}

// ResolveCorpus expands path, which may be a file, a directory searched for
// `.txt` files, or a glob pattern, into the files it names.
func ResolveCorpus(path string) ([]PathInfo, error) {
	if strings.ContainsAny(path, "*?[") {
		return globPaths(path)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return GlobTexts(path)
	}
	return []PathInfo{{Path: path, Size: stat.Size()}}, nil
}

// LoadCorpus
// Resolves path and reads every file it names concurrently. The texts are
// joined with newlines in path order.
func LoadCorpus(path string) (string, error) {
	pathInfos, err := ResolveCorpus(path)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(pathInfos))
	var group errgroup.Group
	group.SetLimit(CorpusReaders)
	for idx := range pathInfos {
		idx := idx
		group.Go(func() error {
			text, readErr := ReadCorpus(pathInfos[idx].Path)
			if readErr != nil {
				return readErr
			}
			texts[idx] = text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}
	var total uint64
	for _, pathInfo := range pathInfos {
		total += uint64(pathInfo.Size)
	}
	log.Printf("Loaded %d corpus file(s) from %s, %s total.",
		len(pathInfos), path, humanize.Bytes(total))
	return strings.Join(texts, "\n"), nil
}
