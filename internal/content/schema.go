package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed course.schema.json
var courseSchemaJSON []byte

const courseSchemaURL = "schema://course.json"

var (
	courseSchemaOnce sync.Once
	courseSchema     *jsonschema.Schema
	courseSchemaErr  error
)

func compiledCourseSchema() (*jsonschema.Schema, error) {
	courseSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(courseSchemaJSON, &doc); err != nil {
			courseSchemaErr = fmt.Errorf("parse course schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(courseSchemaURL, doc); err != nil {
			courseSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		courseSchema, courseSchemaErr = c.Compile(courseSchemaURL)
	})
	return courseSchema, courseSchemaErr
}

// validateDocument checks a decoded YAML document against the course schema.
func validateDocument(doc any) error {
	sch, err := compiledCourseSchema()
	if err != nil {
		return err
	}

	// YAML decodes into types the validator does not expect; a JSON round
	// trip yields plain maps, slices and float64s.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
