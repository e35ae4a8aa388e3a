package response

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// tagPatterns caches compiled <name>(.*?)</name> expressions by tag name.
var tagPatterns sync.Map

func tagPattern(name string) *regexp.Regexp {
	if re, ok := tagPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	quoted := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
	actual, _ := tagPatterns.LoadOrStore(name, re)
	return actual.(*regexp.Regexp)
}

// Tag returns the trimmed content of the first <name>...</name> element in s.
// A missing element yields the empty string.
func Tag(s, name string) string {
	m := tagPattern(name).FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Field resolves a path-style tag name such as "stat1/name".
// A literal <stat1/name> element wins; otherwise each path segment is
// looked up inside the content of the previous one.
func Field(s, path string) string {
	if v := Tag(s, path); v != "" || !strings.Contains(path, "/") {
		return v
	}
	scope := s
	for _, segment := range strings.Split(path, "/") {
		scope = Tag(scope, segment)
		if scope == "" {
			return ""
		}
	}
	return scope
}

// Numbered collects base1, base2, ... and stops at the first index that is
// missing or empty. Later indices after a gap are never read.
func Numbered(s, base string) []string {
	values := make([]string, 0)
	for i := 1; ; i++ {
		v := Field(s, base+strconv.Itoa(i))
		if v == "" {
			return values
		}
		values = append(values, v)
	}
}
