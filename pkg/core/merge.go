package core

import "strings"

// Merge folds a capture into the existing content of a note and returns the new
// content. A nil existing means the note does not exist yet.
//
// Rules:
//   - A new note starts with the highlights marker, followed by the text and,
//     when includeLink is set, the url.
//   - The marker is appended to an existing note that lacks it, never duplicated.
//   - If includeLink is set and the url already occurs in the note, the text is
//     inserted right above its first occurrence and nothing else changes.
//   - Otherwise the text is appended, followed by the url unless the text
//     already carries it.
//
// URL checks are plain substring tests. Text is never deduplicated.
// An empty url is treated as includeLink=false. When the url opens the note,
// nothing precedes the text, so the result starts with the text itself rather
// than a blank line.
func Merge(existing *string, text, url string, includeLink bool) string {
	p := planMerge(existing, text, url, includeLink)

	if !p.exists {
		var b strings.Builder
		b.WriteString(HighlightsMarker + "\n\n" + p.text + "\n\n")
		if p.includeLink {
			b.WriteString(p.url + "\n\n")
		}
		return b.String()
	}

	if p.linkAt >= 0 {
		head := strings.TrimSpace(p.content[:p.linkAt])
		tail := strings.TrimSpace(p.content[p.linkAt:])
		if head == "" {
			return p.text + "\n\n" + tail + "\n\n"
		}
		return head + "\n\n" + p.text + "\n\n" + tail + "\n\n"
	}

	out := p.content + "\n\n" + p.text + "\n\n"
	if p.appendsLink() {
		out += p.url + "\n\n"
	}
	return out
}

// mergePlan is the normalized input Merge works from.
type mergePlan struct {
	text        string
	url         string
	includeLink bool
	exists      bool
	// content is the trimmed note with the marker guaranteed.
	content string
	// linkAt is the first offset of url in content, or -1 when the link is
	// not requested or not present.
	linkAt int
}

func planMerge(existing *string, text, url string, includeLink bool) mergePlan {
	p := mergePlan{
		text:        strings.TrimSpace(text),
		url:         url,
		includeLink: includeLink && url != "",
		linkAt:      -1,
	}
	if existing == nil {
		return p
	}

	p.exists = true
	p.content = strings.TrimSpace(*existing)
	if !strings.Contains(p.content, HighlightsMarker) {
		p.content = strings.TrimSpace(p.content + "\n\n" + HighlightsMarker)
	}
	if p.includeLink {
		p.linkAt = strings.Index(p.content, url)
	}
	return p
}

// appendsLink reports whether Merge writes a new copy of the url.
func (p mergePlan) appendsLink() bool {
	if !p.includeLink {
		return false
	}
	if !p.exists {
		return true
	}
	return p.linkAt < 0 && !strings.Contains(p.text, p.url)
}

// linkAppended reports whether Merge writes a new copy of url for this capture.
func linkAppended(existing *string, text, url string, includeLink bool) bool {
	return planMerge(existing, text, url, includeLink).appendsLink()
}
