package gen

import (
	"path"
	"strings"
)

// emissionDir is where the router-construction helper lives. Every import
// resolved by PathResolver is relative to it.
var emissionDir = path.Join("routers", "helpers")

// PathResolver computes import specifiers between the output tree and
// user supplied modules. Results use forward slashes on every host.
type PathResolver struct {
	// Output is the output root directory.
	Output string
	// SchemaPath is the schema file. Targets flagged outside the output
	// root are relative to its directory.
	SchemaPath string
	// Extension, if set, replaces the last suffix of the result.
	Extension string
}

// Resolve returns the path of target relative to <Output>/routers/helpers.
// target is relative to the output root, or, when outside is set, absolute
// or relative to the schema directory.
func (r *PathResolver) Resolve(target string, outside bool) (string, error) {
	output := toSlash(r.Output)
	from := path.Join(output, emissionDir)
	target = toSlash(target)
	var to string
	switch {
	case outside && isAbs(target):
		to = target
	case outside && r.SchemaPath != "":
		to = path.Join(path.Dir(toSlash(r.SchemaPath)), target)
	default:
		to = path.Join(output, target)
	}
	rel, err := relative(from, to)
	if err != nil {
		return "", err
	}
	if r.Extension != "" {
		rel = ReplaceExtension(rel, r.Extension)
	}
	return rel, nil
}

// Specifier is like Resolve but returns a module specifier, prefixed with
// "./" when the relative path does not already start with a dot segment.
func (r *PathResolver) Specifier(target string, outside bool) (string, error) {
	rel, err := r.Resolve(target, outside)
	if err != nil {
		return "", err
	}
	return ModuleSpecifier(rel), nil
}

// ModuleSpecifier prefixes rel with "./" unless it already starts with "./"
// or "../".
func ModuleSpecifier(rel string) string {
	switch {
	case rel == "" || rel == ".":
		return "."
	case rel == "..", strings.HasPrefix(rel, "./"), strings.HasPrefix(rel, "../"):
		return rel
	default:
		return "./" + rel
	}
}

// ReplaceExtension strips the suffix after the last "." of the final path
// element, if any, and appends ext.
func ReplaceExtension(p, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	base := p[strings.LastIndexByte(p, '/')+1:]
	if i := strings.LastIndexByte(base, '.'); i >= 0 && i < len(base)-1 {
		p = p[:len(p)-len(base)+i]
	}
	return p + "." + ext
}

// toSlash converts host separators to forward slashes. Backslashes are
// converted regardless of the host so Windows paths resolve identically.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// relative returns a slash-separated path that is lexically equivalent to
// target when joined to base.
func relative(base, target string) (string, error) {
	base, target = path.Clean(base), path.Clean(target)
	if volume(base) != volume(target) {
		return "", &ResolveError{From: base, Target: target, Message: "paths are on different volumes"}
	}
	if strings.HasPrefix(base, "/") != strings.HasPrefix(target, "/") {
		return "", &ResolveError{From: base, Target: target, Message: "cannot mix absolute and relative paths"}
	}
	if base == target {
		return ".", nil
	}
	bs, ts := segments(base), segments(target)
	n := 0
	for n < len(bs) && n < len(ts) && bs[n] == ts[n] {
		n++
	}
	if n < len(bs) && bs[n] == ".." {
		return "", &ResolveError{From: base, Target: target, Message: "base escapes its root"}
	}
	parts := make([]string, 0, len(bs)-n+len(ts)-n)
	for range bs[n:] {
		parts = append(parts, "..")
	}
	parts = append(parts, ts[n:]...)
	return strings.Join(parts, "/"), nil
}

func segments(p string) []string {
	if volume(p) != "" {
		p = p[2:]
	}
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || volume(p) != ""
}

// volume returns the drive letter prefix of a Windows style path, e.g. "C:".
func volume(p string) string {
	if len(p) >= 2 && p[1] == ':' && ('a' <= p[0]|0x20 && p[0]|0x20 <= 'z') {
		return strings.ToUpper(p[:2])
	}
	return ""
}
