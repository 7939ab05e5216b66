// Package cxxutil provides the string utilities shared by the C++ model and the code generators.
package cxxutil

import (
	"regexp"
	"strings"

	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// IndentWidth is the number of spaces per nesting level in generated code.
	IndentWidth = 2
	// Backreference is the placeholder Swap replaces with the first capture group.
	Backreference = `\1`
)

// Template joins args into a C++ template argument list, e.g. "<int, float>".
func Template(args ...string) string {
	return "<" + strings.Join(args, ", ") + ">"
}

// Swap matches src against pattern (anchored at the start of src) and returns dst with every
// Backreference replaced by the first capture group. A dst without a backreference is returned as is.
func Swap(pattern, dst, src string) (string, error) {
	if !strings.Contains(dst, Backreference) {
		return dst, nil
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return "", errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	match := re.FindStringSubmatch(src)
	if match == nil {
		return "", errors.Newf("%s doesn't match %s", src, pattern)
	}

	if len(match) < 2 { //nolint:mnd // whole match plus one group
		return "", errors.Newf("pattern %q has no capture group to substitute into %q", pattern, dst)
	}

	return strings.ReplaceAll(dst, Backreference, match[1]), nil
}

// Indent indents every line of value by one level.
func Indent(value string) string {
	pad := strings.Repeat(" ", IndentWidth)

	return pad + strings.ReplaceAll(value, "\n", "\n"+pad)
}

// GroupStable partitions items into equivalence classes of key. Classes appear in the order of their
// first member, members keep their relative order.
func GroupStable[T any, K comparable](items []T, key func(T) K) [][]T {
	index := map[K]int{}

	var groups [][]T

	for _, item := range items {
		k := key(item)

		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}

		groups[i] = append(groups[i], item)
	}

	return groups
}

// FilterDuplicates returns items without repetitions, keeping first occurrences.
func FilterDuplicates[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}

		seen[item] = struct{}{}
		result = append(result, item)
	}

	return result
}
