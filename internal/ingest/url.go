package ingest

import "strings"

// ExtractVideoID pulls the platform video identifier out of the two
// recognized URL shapes: the watch form ("...?v=<id>&...") and the short
// form ("youtu.be/<id>").
func ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}
	if _, after, ok := strings.Cut(rawURL, "v="); ok {
		id := cutAny(after, "&", "#")
		if id != "" {
			return id, nil
		}
		return "", ErrInvalidURL
	}
	if _, after, ok := strings.Cut(rawURL, "youtu.be/"); ok {
		id := cutAny(after, "?", "&", "/", "#")
		if id != "" {
			return id, nil
		}
	}
	return "", ErrInvalidURL
}

func cutAny(s string, seps ...string) string {
	for _, sep := range seps {
		s, _, _ = strings.Cut(s, sep)
	}
	return s
}
