package agent

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

//go:embed schemas/worksheet.schema.json
var worksheetSchemaJSON string

var (
	shapeOnce    sync.Once
	shapeSchemas map[models.ProductType]*gojsonschema.Schema
	shapeErr     error
)

func loadShapeSchemas() (map[models.ProductType]*gojsonschema.Schema, error) {
	shapeOnce.Do(func() {
		worksheet, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(worksheetSchemaJSON))
		if err != nil {
			shapeErr = fmt.Errorf("compile worksheet schema: %w", err)
			return
		}
		shapeSchemas = map[models.ProductType]*gojsonschema.Schema{
			models.ProductTypeWorksheet: worksheet,
		}
	})
	return shapeSchemas, shapeErr
}

// ShapeIssues lists the places where content departs from the structure requested for its
// product type. Types without a registered structure never report issues.
func ShapeIssues(productType models.ProductType, content Content) ([]string, error) {
	schemas, err := loadShapeSchemas()
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[productType]
	if !ok {
		return nil, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(content))
	if err != nil {
		return nil, fmt.Errorf("check %s shape: %w", kindLower(productType), err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, field+": "+desc.Description())
	}
	return issues, nil
}
