// Package courseparse splits the schedule's raw course-code cell
// (e.g. "BUS4 91L (Section 80)") into subject, course and section.
package courseparse

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)

	// trailing section annotations, in stripping priority order
	parenSection = regexp.MustCompile(`(?i)\(\s*Section\s*([^)]+)\)\s*$`)
	parenBare    = regexp.MustCompile(`\(\s*([A-Za-z0-9-]+)\s*\)\s*$`)
	secWord      = regexp.MustCompile(`(?i)\bSec(?:tion)?\.?\s*([A-Za-z0-9-]+)\s*$`)
	dashSuffix   = regexp.MustCompile(`[-–]\s*([A-Za-z0-9-]+)\s*$`)

	// single-token codes like "ENGR10": letters then digits with an
	// optional letter tail
	fusedCode = regexp.MustCompile(`^([A-Za-z]+)(\d+[A-Za-z]*)$`)
)

// Code is the result of splitting a raw course-code cell. SectionText is
// empty when no section annotation was present.
type Code struct {
	Subject     string
	Course      string
	SectionText string
}

// Split parses a raw course-code cell. It is total: it never fails, worst
// case it returns the cleaned input as Subject with an empty Course.
func Split(raw string) Code {
	s := normalize(raw)

	// extract the section from the normalized input before any suffix
	// stripping, so stripping cannot eat the captured token
	section := sectionText(s)

	// strip at most one trailing section annotation
	for _, re := range []*regexp.Regexp{parenSection, parenBare, secWord, dashSuffix} {
		if re.MatchString(s) {
			s = strings.TrimSpace(re.ReplaceAllString(s, ""))
			break
		}
	}

	var subject, course string
	toks := strings.Fields(s)
	switch {
	case len(toks) >= 2:
		subject = toks[0]
		course = toks[1]
	case len(toks) == 1:
		if m := fusedCode.FindStringSubmatch(toks[0]); m != nil {
			subject = m[1]
			course = m[2]
		} else {
			subject = toks[0]
		}
	}

	return Code{
		Subject:     strings.ToUpper(subject),
		Course:      strings.ToUpper(course),
		SectionText: section,
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func sectionText(s string) string {
	for _, re := range []*regexp.Regexp{parenSection, secWord, dashSuffix, parenBare} {
		if m := re.FindStringSubmatch(s); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
