// Package content loads course vocabulary from YAML files in a content
// directory. Each file holds one course made of ordered lessons.
package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/lingoz/internal/vocab"
)

// Lesson is an ordered list of vocabulary items. Item indices are the
// positions used by mastery records.
type Lesson struct {
	ID    string         `yaml:"id"`
	Title string         `yaml:"title"`
	Items []vocab.Triple `yaml:"items"`
}

// Course is a titled, ordered list of lessons.
type Course struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Lessons []Lesson `yaml:"lessons"`

	// Path is the file the course was loaded from.
	Path string `yaml:"-"`
}

// ErrInvalidCourse is returned when a course file cannot be decoded or
// fails validation.
type ErrInvalidCourse struct {
	Path string
	Err  error
}

func (e *ErrInvalidCourse) Error() string {
	return fmt.Sprintf("invalid course %s: %v", e.Path, e.Err)
}

func (e *ErrInvalidCourse) Unwrap() error {
	return e.Err
}

// CanonicalID folds identifier spellings: surrounding space is dropped and
// underscores become hyphens.
func CanonicalID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "_", "-")
}

// Catalog is the set of courses found in a content directory.
type Catalog struct {
	dir     string
	courses map[string]Course
}

// Load reads every *.yaml and *.yml file in dir. A course without an id is
// named after its file.
func Load(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	cat := &Catalog{dir: dir, courses: make(map[string]Course)}
	for _, entry := range entries {
		if entry.IsDir() || !isCourseFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		course, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := cat.courses[course.ID]; ok {
			return nil, &ErrInvalidCourse{
				Path: path,
				Err:  fmt.Errorf("course %q already defined in %s", course.ID, prev.Path),
			}
		}
		cat.courses[course.ID] = course
		logger.Debug("course loaded", "course", course.ID, "lessons", len(course.Lessons), "path", path)
	}
	return cat, nil
}

// LoadFile reads a single course file.
func LoadFile(path string) (Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, fmt.Errorf("read course: %w", err)
	}
	course, err := Parse(data)
	if err != nil {
		return Course{}, &ErrInvalidCourse{Path: path, Err: err}
	}
	if course.ID == "" {
		course.ID = CanonicalID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	course.Path = path
	return course, nil
}

// Parse decodes and validates one course document.
func Parse(data []byte) (Course, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Course{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return Course{}, err
	}

	var course Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		return Course{}, fmt.Errorf("decode course: %w", err)
	}
	course.ID = CanonicalID(course.ID)

	seen := make(map[string]bool, len(course.Lessons))
	for i := range course.Lessons {
		l := &course.Lessons[i]
		l.ID = CanonicalID(l.ID)
		if seen[l.ID] {
			return Course{}, fmt.Errorf("duplicate lesson id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return course, nil
}

func isCourseFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Dir returns the directory the catalog was loaded from.
func (c *Catalog) Dir() string {
	return c.dir
}

// Courses returns all courses sorted by id.
func (c *Catalog) Courses() []Course {
	out := make([]Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Course returns the course with the given id.
func (c *Catalog) Course(id string) (Course, bool) {
	course, ok := c.courses[CanonicalID(id)]
	return course, ok
}

// LessonIDs returns the course's lesson ids in course order.
func (c *Catalog) LessonIDs(courseID string) []string {
	course, ok := c.Course(courseID)
	if !ok {
		return nil
	}
	ids := make([]string, len(course.Lessons))
	for i, l := range course.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// Lesson returns one lesson of a course.
func (c *Catalog) Lesson(courseID, lessonID string) (Lesson, bool) {
	course, ok := c.Course(courseID)
	if !ok {
		return Lesson{}, false
	}
	lessonID = CanonicalID(lessonID)
	for _, l := range course.Lessons {
		if l.ID == lessonID {
			return l, true
		}
	}
	return Lesson{}, false
}

// LessonItems returns a copy of the lesson's items in file order, or nil
// for an unknown course or lesson.
func (c *Catalog) LessonItems(courseID, lessonID string) []vocab.Triple {
	l, ok := c.Lesson(courseID, lessonID)
	if !ok || len(l.Items) == 0 {
		return nil
	}
	return append([]vocab.Triple(nil), l.Items...)
}
