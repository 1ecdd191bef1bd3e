package model

import (
	"strings"
)

// Lines holds the lines of a file. Every line keeps its own terminator, so
// Join reproduces the original content byte for byte.
type Lines []string

func SplitLines(content string) Lines {
	if content == "" {
		return Lines{}
	}

	result := strings.SplitAfter(content, "\n")
	if result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}
	return result
}

func (l Lines) Join() string {
	var sb strings.Builder
	for _, line := range l {
		sb.WriteString(line)
	}
	return sb.String()
}

func (l Lines) Bytes() []byte {
	return []byte(l.Join())
}

func (l Lines) Len() int {
	return len(l)
}

func (l Lines) Clone() Lines {
	result := make(Lines, len(l))
	copy(result, l)
	return result
}

// Text returns the line without its terminator.
func (l Lines) Text(i int) string {
	return strings.TrimRight(l[i], "\r\n")
}
