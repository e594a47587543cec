package vocab

import (
	"strings"

	"golang.org/x/text/cases"
)

// Mode is an exercise type that can be run against a pool of triples.
type Mode string

const (
	ModeQuiz          Mode = "quiz"
	ModeMatching      Mode = "matching"
	ModeTranscription Mode = "transcription"
	// ModeAudio needs recorded audio, which no source provides yet.
	ModeAudio Mode = "audio"
)

// Feasibility thresholds.
const (
	MinQuizNatives        = 4
	MinMatchingTriples    = 3
	MinTranscriptionForms = 3
)

// AllModes returns every mode in display order.
func AllModes() []Mode {
	return []Mode{ModeQuiz, ModeMatching, ModeTranscription, ModeAudio}
}

// AvailableModes returns the feasible modes for a normalized pool, in
// AllModes order.
func AvailableModes(triples []Triple) []Mode {
	var modes []Mode
	for _, m := range AllModes() {
		if IsFeasible(m, triples) {
			modes = append(modes, m)
		}
	}
	return modes
}

// IsFeasible reports whether a mode can be played with the given triples.
func IsFeasible(mode Mode, triples []Triple) bool {
	switch mode {
	case ModeQuiz:
		return distinctNatives(triples) >= MinQuizNatives
	case ModeMatching:
		return len(triples) >= MinMatchingTriples
	case ModeTranscription:
		n := 0
		for _, t := range triples {
			if strings.TrimSpace(t.Phonetic) != "" {
				n++
			}
		}
		return n >= MinTranscriptionForms
	}
	return false
}

func distinctNatives(triples []Triple) int {
	folder := cases.Fold()
	seen := make(map[string]bool, len(triples))
	for _, t := range triples {
		native := strings.TrimSpace(t.Native)
		if native == "" {
			continue
		}
		seen[foldKey(folder, native)] = true
	}
	return len(seen)
}
