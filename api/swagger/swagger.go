package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Content Forge API",
        "description": "Generates worksheets, passages, quizzes and assessments against curriculum standards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Generation", "description": "Queue product generation"},
        {"name": "Jobs", "description": "Generation job progress"},
        {"name": "Products", "description": "Products and stage artifacts"},
        {"name": "Observability", "description": "Pipeline counters"}
    ],
    "paths": {
        "/generate-product": {
            "post": {
                "tags": ["Generation"],
                "summary": "Generate a single product",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateProductRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/AcceptedEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Standard not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Queue unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generate-bundle": {
            "post": {
                "tags": ["Generation"],
                "summary": "Generate one product of every type",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateBundleRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/AcceptedEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Standard not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-jobs": {
            "get": {
                "tags": ["Jobs"],
                "summary": "List generation jobs",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-jobs/{id}": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Get a generation job with progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/JobEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-jobs/{id}/products": {
            "get": {
                "tags": ["Jobs"],
                "summary": "List the products of a job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["Products"],
                "summary": "Get a product",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/products/{id}/artifacts/{kind}": {
            "get": {
                "tags": ["Products"],
                "summary": "Get a stage artifact",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["raw", "qc", "metadata"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not written yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/products/{id}/retry": {
            "post": {
                "tags": ["Products"],
                "summary": "Retry a failed product",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/AcceptedEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Product is not FAILED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["Products"],
                "summary": "List products",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["DRAFT", "GENERATED", "FAILED", "REVIEWED", "PUBLISHED"]},
                    {"name": "product_type", "in": "query", "type": "string", "enum": ["WORKSHEET", "PASSAGE", "QUIZ", "ASSESSMENT"]},
                    {"name": "generation_job_id", "in": "query", "type": "string"},
                    {"name": "standard_id", "in": "query", "type": "string"},
                    {"name": "curriculum_board", "in": "query", "type": "string", "enum": ["CBSE", "COMMON_CORE"]},
                    {"name": "locale", "in": "query", "type": "string", "enum": ["IN", "US"]},
                    {"name": "grade_level", "in": "query", "type": "integer", "minimum": 1, "maximum": 12},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/products/{id}/status": {
            "patch": {
                "tags": ["Products"],
                "summary": "Move a product through review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProductStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/standards": {
            "get": {
                "tags": ["Standards"],
                "summary": "List standards",
                "parameters": [
                    {"name": "code", "in": "query", "type": "string", "description": "code prefix"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Standards"],
                "summary": "Create a standard",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStandardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/standards/{id}": {
            "get": {
                "tags": ["Standards"],
                "summary": "Get a standard",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Observability"],
                "summary": "Pipeline counters since process start",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreateStandardRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string", "maxLength": 64},
                "description": {"type": "string", "maxLength": 500}
            }
        },
        "UpdateProductStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["REVIEWED", "PUBLISHED"]}
            }
        },
        "GenerateProductRequest": {
            "type": "object",
            "required": ["standard_id", "product_type", "locale", "curriculum_board", "grade_level"],
            "properties": {
                "standard_id": {"type": "string"},
                "product_type": {"type": "string", "enum": ["WORKSHEET", "PASSAGE", "QUIZ", "ASSESSMENT"]},
                "locale": {"type": "string", "enum": ["IN", "US"]},
                "curriculum_board": {"type": "string", "enum": ["CBSE", "COMMON_CORE"]},
                "grade_level": {"type": "integer", "minimum": 1, "maximum": 12}
            }
        },
        "GenerateBundleRequest": {
            "type": "object",
            "required": ["standard_id", "locale", "curriculum_board", "grade_level"],
            "properties": {
                "standard_id": {"type": "string"},
                "locale": {"type": "string", "enum": ["IN", "US"]},
                "curriculum_board": {"type": "string", "enum": ["CBSE", "COMMON_CORE"]},
                "grade_level": {"type": "integer", "minimum": 1, "maximum": 12}
            }
        },
        "GenerationAccepted": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "product_ids": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "GenerationJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "standard_id": {"type": "string"},
                "locale": {"type": "string"},
                "curriculum_board": {"type": "string"},
                "grade_level": {"type": "integer"},
                "job_type": {"type": "string", "enum": ["SINGLE_PRODUCT", "FULL_BUNDLE"]},
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"]},
                "total_products": {"type": "integer"},
                "completed_products": {"type": "integer"},
                "failed_products": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "AcceptedEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerationAccepted"}
            }
        },
        "JobEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerationJob"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
