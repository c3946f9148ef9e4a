package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "schema://catalog.json"

// catalogSchema compiles the embedded schema once per process.
var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(catalogSchemaURL)
})

// validateDocument checks a decoded YAML document against the catalog schema.
// The document is re-encoded as JSON so the validator sees JSON value types.
func validateDocument(doc any) error {
	schema, err := catalogSchema()
	if err != nil {
		return steperr.NewInvalidCatalog("compile catalog schema", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return steperr.NewInvalidCatalog("catalog is not representable as JSON", err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return steperr.NewInvalidCatalog("re-decode catalog", err)
	}
	if err := schema.Validate(value); err != nil {
		return steperr.NewInvalidCatalog("catalog does not match schema", err)
	}
	return nil
}
