package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const sectionPrefix = "---"

var (
	speakerPattern = regexp.MustCompile(`(\w\d)-`)
	agePattern     = regexp.MustCompile(`-(\d{2})`)
)

// SectionHeader returns the marker line that opens a section for the named
// transcript file, e.g. "---c1-09.cha".
func SectionHeader(name string) string {
	return sectionPrefix + name
}

// IsSectionHeader reports whether line opens a new section.
func IsSectionHeader(line string) bool {
	return strings.HasPrefix(line, sectionPrefix)
}

// ParseHeader extracts the caregiver code and child age in months from a
// section header. The code is the first word character plus digit directly
// followed by a hyphen; the age is the first two-digit run directly after a
// hyphen.
func ParseHeader(line string) (string, int, error) {
	speaker := speakerPattern.FindStringSubmatch(line)
	if speaker == nil {
		return "", 0, fmt.Errorf("%w: no caregiver code", ErrMalformedHeader)
	}
	age := agePattern.FindStringSubmatch(line)
	if age == nil {
		return "", 0, fmt.Errorf("%w: no age", ErrMalformedHeader)
	}
	months, err := strconv.Atoi(age[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: age %q: %v", ErrMalformedHeader, age[1], err)
	}
	return speaker[1], months, nil
}
