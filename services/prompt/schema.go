package prompt

import (
	"encoding/json"
	"sync"

	"smartstudy/models"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce  sync.Once
	quizSchema  *jsonschema.Schema
	slideSchema *jsonschema.Schema
)

// QuizSchema describes an array of QuizQuestion.
func QuizSchema() *jsonschema.Schema {
	schemaOnce.Do(buildSchemas)
	return quizSchema
}

// SlideSchema describes an array of Slide.
func SlideSchema() *jsonschema.Schema {
	schemaOnce.Do(buildSchemas)
	return slideSchema
}

// SchemaJSON renders a schema for embedding in an instruction or compiling a validator.
func SchemaJSON(s *jsonschema.Schema) string {
	if s == nil {
		return ""
	}
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func buildSchemas() {
	quizSchema = arrayOf[models.QuizQuestion]()
	slideSchema = arrayOf[models.Slide]()
}

func arrayOf[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	item := reflector.Reflect(v)
	item.Version = ""

	return &jsonschema.Schema{
		Version: jsonschema.Version,
		Type:    "array",
		Items:   item,
	}
}
