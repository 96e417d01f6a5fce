package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the config file format, indented.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&File{})
	s.Title = "tagkit configuration"
	s.Description = "Gateway and tagging engine settings for tagkit."
	return json.MarshalIndent(s, "", "  ")
}
