package models

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/scan_output.schema.json
var scanOutputSchema []byte

const scanOutputSchemaURL = "https://github.com/panbanda/clrd/schema/scan_output.schema.json"

var (
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
	compileSchemaOnce sync.Once
)

// ScanOutputSchema returns the JSON schema describing ScanOutput.
func ScanOutputSchema() []byte {
	return scanOutputSchema
}

func loadScanOutputSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(scanOutputSchema))
		if err != nil {
			compiledSchemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(scanOutputSchemaURL, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = c.Compile(scanOutputSchemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

// ValidateScanOutput checks a JSON document against the ScanOutput schema.
func ValidateScanOutput(r io.Reader) error {
	sch, err := loadScanOutputSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	return sch.Validate(inst)
}
