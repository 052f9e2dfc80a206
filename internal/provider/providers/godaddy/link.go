package godaddy

import "strings"

// splitLinkParts splits a Link header value into its comma
// separated link-values, for example
// `<https://x/a?marker=m>; rel="next", <https://x/a>; rel="first"`.
func splitLinkParts(link string) (parts []string) {
	for _, part := range strings.Split(link, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// parseLinkPart parses one link-value into its target URL and its
// rel parameter. ok is false when the part is not a link-value.
func parseLinkPart(part string) (url, rel string, ok bool) {
	segments := strings.Split(part, ";")
	urlSegment := strings.TrimSpace(segments[0])
	if !strings.HasPrefix(urlSegment, "<") || !strings.HasSuffix(urlSegment, ">") {
		return "", "", false
	}
	url = strings.Trim(urlSegment, "<>")

	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		value, hasRel := strings.CutPrefix(segment, "rel=")
		if !hasRel {
			continue
		}
		rel = strings.Trim(value, `"`)
		break
	}

	return url, rel, true
}
