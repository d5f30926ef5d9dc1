package discovery

import (
	"bufio"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one gitignore pattern, scoped to the directory that declared it.
type rule struct {
	base    string // slash separated, relative to the walk root; "" for the root
	glob    string
	negated bool
	dirOnly bool
}

// matcher applies gitignore-style rules collected during a walk.
type matcher struct {
	rules []rule
}

func newMatcher(patterns []string) *matcher {
	m := &matcher{}
	for _, p := range patterns {
		m.add("", p)
	}
	return m
}

// add parses one pattern line declared in base.
func (m *matcher) add(base, line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	r := rule{base: base}
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\`) {
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	// A pattern without an inner slash matches at any depth; one with a
	// slash is relative to the declaring directory.
	if strings.HasPrefix(line, "/") {
		line = line[1:]
	} else if !strings.Contains(line, "/") {
		line = "**/" + line
	}
	if line == "" {
		return
	}

	r.glob = line
	m.rules = append(m.rules, r)
}

// loadFile reads the .gitignore of dir, declared at base.
func (m *matcher) loadFile(dir, base string) error {
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m.add(base, scanner.Text())
	}
	return scanner.Err()
}

// match reports whether rel (slash separated, relative to the walk root)
// is ignored. The last matching rule wins.
func (m *matcher) match(rel string, isDir bool) bool {
	ignored := false
	for _, r := range m.rules {
		sub, ok := r.scope(rel)
		if !ok {
			continue
		}
		if r.dirOnly && !isDir {
			if r.matchesParent(sub) {
				ignored = !r.negated
			}
			continue
		}
		if r.matches(sub) {
			ignored = !r.negated
		}
	}
	return ignored
}

// scope returns rel relative to the rule's directory.
func (r rule) scope(rel string) (string, bool) {
	if r.base == "" {
		return rel, true
	}
	if !strings.HasPrefix(rel, r.base+"/") {
		return "", false
	}
	return rel[len(r.base)+1:], true
}

func (r rule) matches(p string) bool {
	if ok, _ := doublestar.Match(r.glob, p); ok {
		return true
	}
	// Anything inside a matched directory is matched too.
	ok, _ := doublestar.Match(r.glob+"/**", p)
	return ok
}

func (r rule) matchesParent(p string) bool {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if r.matches(dir) {
			return true
		}
	}
	return false
}
