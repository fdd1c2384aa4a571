package resolve

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cistage/internal/util/sets"
)

// Kind tags a resolved path.
type Kind int

const (
	// Ignored covers broken symlinks, sockets, devices and paths that
	// vanished between globbing and classification.
	Ignored Kind = iota
	Directory
	File
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return "ignored"
	}
}

// Entry is an absolute path together with its classification.
type Entry struct {
	Path string
	Kind Kind
}

// Classify stats every path once, following symlinks, and tags it.
func Classify(paths []string) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		entries = append(entries, Entry{Path: filepath.Clean(abs), Kind: classify(abs)})
	}
	return entries
}

func classify(path string) Kind {
	info, err := os.Stat(path)
	if err != nil {
		return Ignored
	}
	switch {
	case info.IsDir():
		return Directory
	case info.Mode().IsRegular():
		return File
	default:
		return Ignored
	}
}

// Partition splits entries into deduplicated directory and file sets.
// Ignored entries are dropped.
func Partition(entries []Entry) (dirs, files sets.Set[string]) {
	dirs, files = sets.New[string](), sets.New[string]()
	for _, e := range entries {
		switch e.Kind {
		case Directory:
			dirs.Add(e.Path)
		case File:
			files.Add(e.Path)
		case Ignored:
		}
	}
	return dirs, files
}
