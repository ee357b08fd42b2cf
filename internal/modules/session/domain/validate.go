package domain

import "github.com/kaptinlin/jsonschema"

// sessionSchemaJSON is the shape contract for externally supplied session
// records. It deliberately does not relate start and end: legacy exports carry
// inverted ranges and must still import. Ordering is enforced on manual entry
// only.
const sessionSchemaJSON = `{
  "type": "object",
  "required": ["id", "game", "start", "end"],
  "properties": {
    "id": {"type": "string"},
    "game": {"type": "string"},
    "start": {"type": "number"},
    "end": {"type": "number"},
    "intent": {"type": "string"},
    "outcome": {"type": "string"}
  }
}`

var sessionSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	schema, err := jsonschema.NewCompiler().Compile([]byte(sessionSchemaJSON))
	if err != nil {
		panic("compile session schema: " + err.Error())
	}
	return schema
}

// IsSessionLike reports whether raw (a JSON value) is an acceptable session
// record: string id and game, numeric start and end, and optional string
// intent/outcome. An explicit null note field is rejected, an absent one is
// fine.
func IsSessionLike(raw []byte) bool {
	return sessionSchema.ValidateJSON(raw).IsValid()
}
