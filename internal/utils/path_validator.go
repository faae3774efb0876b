package utils

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxEntryNameLength = 100
)

var (
	// Anything that is not a letter, digit, space, dot, hyphen or underscore
	unsafeNameRegex = regexp.MustCompile(`[^\p{L}\p{N}\s.\-_]+`)
)

// SafeEntryName turns a user-supplied name into a single archive path
// segment. Names that end up empty become fallback.
func SafeEntryName(name, fallback string) string {
	name = unsafeNameRegex.ReplaceAllString(name, "-")

	// Normalize multiple spaces to single space
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ".- ")

	if r := []rune(name); len(r) > MaxEntryNameLength {
		name = string(r[:MaxEntryNameLength])
	}
	if name == "" {
		return fallback
	}
	return name
}

// UniqueNames tracks names already handed out and suffixes repeats
// with " (2)", " (3)" and so on.
type UniqueNames map[string]int

func (u UniqueNames) Next(name string) string {
	key := strings.ToLower(name)
	n := u[key]
	u[key] = n + 1
	if n == 0 {
		return name
	}
	candidate := name + " (" + strconv.Itoa(n+1) + ")"
	if _, taken := u[strings.ToLower(candidate)]; taken {
		return u.Next(candidate)
	}
	u[strings.ToLower(candidate)] = 1
	return candidate
}
