package level

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseFunc parses raw level file contents into geometry. Parsers return
// unvalidated levels; FileSource runs Validate after parsing.
type ParseFunc func(data []byte) (*Level, error)

var (
	formatsMu sync.RWMutex
	formats   = make(map[string]ParseFunc)
)

// RegisterFormat adds a parser for a file extension (".yaml"). Typically
// called from a format's init() function. Panics if the extension is
// already registered.
func RegisterFormat(ext string, parse ParseFunc) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	ext = strings.ToLower(ext)
	if _, exists := formats[ext]; exists {
		panic(fmt.Sprintf("level: format %q already registered", ext))
	}

	formats[ext] = parse
}

// Formats returns the registered extensions, sorted.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	return exts
}

func parserFor(ext string) (ParseFunc, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	p, ok := formats[strings.ToLower(ext)]
	return p, ok
}
