package vocab

// Triple is one vocabulary entry: the learner's native-language text, the
// target-language script form and its phonetic transcription.
type Triple struct {
	Native   string `json:"native" yaml:"native"`
	Script   string `json:"script" yaml:"script"`
	Phonetic string `json:"phonetic" yaml:"phonetic"`
}

// PairID identifies the two cards a triple produces in a matching round.
func (t Triple) PairID() string {
	return t.Native + "|" + t.Phonetic
}

// Source returns the mastered vocabulary of a lesson.
type Source interface {
	// TriplesForLesson returns the ordered triples the learner has mastered
	// in the lesson. Unknown ids yield an empty slice.
	TriplesForLesson(courseID, lessonID string) []Triple
}

// MasteryQuery reports which items of a lesson the learner has learned.
type MasteryQuery interface {
	// MasteredIndices returns indices into the lesson's full item list.
	MasteredIndices(courseID, lessonID string) map[int]bool
}

// ItemLister returns the full, unfiltered item list of a lesson.
type ItemLister interface {
	LessonItems(courseID, lessonID string) []Triple
}

// MasteredSource is a Source that keeps only the mastered items of each
// lesson and normalizes the result.
type MasteredSource struct {
	Items   ItemLister
	Mastery MasteryQuery
}

// TriplesForLesson implements Source.
func (s MasteredSource) TriplesForLesson(courseID, lessonID string) []Triple {
	if s.Items == nil || s.Mastery == nil {
		return nil
	}
	items := s.Items.LessonItems(courseID, lessonID)
	mastered := s.Mastery.MasteredIndices(courseID, lessonID)
	if len(items) == 0 || len(mastered) == 0 {
		return nil
	}

	kept := make([]Triple, 0, len(mastered))
	for i, item := range items {
		if mastered[i] {
			kept = append(kept, item)
		}
	}
	return Normalize(kept)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(courseID, lessonID string) []Triple

// TriplesForLesson implements Source.
func (f SourceFunc) TriplesForLesson(courseID, lessonID string) []Triple {
	return f(courseID, lessonID)
}
