package wikitext

import "strings"

// Section is one heading-delimited chunk of a page's wikitext.
// Text starts with the heading line itself.
type Section struct {
	Level int
	Title string
	Text  string
}

// Sections splits a page's wikitext on heading lines (=Title=, ==Title==,
// ...), whose opening and closing runs of "=" must be equally long. Text
// before the first heading is dropped. Sections are numbered in document
// order, so Sections(text)[i-1] matches the API's section index i.
func Sections(text string) []Section {
	var out []Section
	for _, line := range strings.Split(text, "\n") {
		if level, title, ok := heading(line); ok {
			out = append(out, Section{Level: level, Title: strings.TrimSpace(title), Text: line})
			continue
		}
		if n := len(out); n > 0 {
			out[n-1].Text += "\n" + line
		}
	}
	return out
}

// SectionText returns the wikitext of the 1-based section index.
func SectionText(text string, index int) (string, bool) {
	sections := Sections(text)
	if index < 1 || index > len(sections) {
		return "", false
	}
	return sections[index-1].Text, true
}

func heading(line string) (level int, title string, ok bool) {
	level = len(line) - len(strings.TrimLeft(line, "="))
	if level == 0 {
		return 0, "", false
	}

	rest := line[level:]
	end := strings.IndexByte(rest, '=')
	if end <= 0 {
		return 0, "", false
	}

	title, closing := rest[:end], rest[end:]
	if len(closing)-len(strings.TrimLeft(closing, "=")) < level {
		return 0, "", false
	}
	return level, title, true
}
