package access

import "strings"

// Route patterns use parameter segments prefixed with a colon, e.g.
// /documents/:id/edit matches /documents/42/edit. When several patterns match
// a path the most specific one wins, i.e. the pattern with the fewest
// parameter segments. Remaining ties break on the lowest resource id so the
// decision is deterministic.

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func isParamSegment(seg string) bool {
	return strings.HasPrefix(seg, ":")
}

// matchSegments reports whether the pattern matches the concrete path and how
// many parameter segments were consumed.
func matchSegments(pattern, path []string) (int, bool) {
	if len(pattern) != len(path) {
		return 0, false
	}
	params := 0
	for i, seg := range pattern {
		if isParamSegment(seg) {
			params++
			continue
		}
		if seg != path[i] {
			return 0, false
		}
	}
	return params, true
}

// matchResource finds the best matching resource for a concrete path. The
// method filter applies to api resources only; pass an empty method for
// routes.
func matchResource(resources []Resource, path, method string) (Resource, bool) {
	pathSegments := splitPath(path)
	var (
		best       Resource
		bestParams int
		found      bool
	)
	for _, res := range resources {
		if method != "" && !strings.EqualFold(res.Method(), method) {
			continue
		}
		params, ok := matchSegments(splitPath(res.Path), pathSegments)
		if !ok {
			continue
		}
		if !found || params < bestParams || (params == bestParams && res.ID < best.ID) {
			best = res
			bestParams = params
			found = true
		}
	}
	return best, found
}
