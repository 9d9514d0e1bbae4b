package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Arsip Akademik API",
        "description": "Academic records backend: accounts, thesis proposals, supervision assignments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh, password management"},
        {"name": "Proposals", "description": "Thesis proposal workflow"},
        {"name": "Supervisions", "description": "Advisor assignment roster"},
        {"name": "Students", "description": "Mahasiswa records"},
        {"name": "Lecturers", "description": "Dosen records"},
        {"name": "Roles", "description": "Roles and the permission catalog"},
        {"name": "Transfer", "description": "Bulk CSV import and roster export"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/proposals": {
            "get": {
                "tags": ["Proposals"],
                "summary": "List proposals",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Proposals"],
                "summary": "Submit a thesis proposal",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "A pending proposal already exists"}
                }
            }
        },
        "/proposals/{id}/approve": {
            "post": {
                "tags": ["Proposals"],
                "summary": "Approve a pending proposal",
                "responses": {
                    "200": {"description": "Approved"},
                    "409": {"description": "Proposal is not pending"}
                }
            }
        },
        "/proposals/{id}/reject": {
            "post": {
                "tags": ["Proposals"],
                "summary": "Reject a pending proposal",
                "responses": {
                    "200": {"description": "Rejected"},
                    "400": {"description": "Review note is required"}
                }
            }
        },
        "/supervisions": {
            "get": {
                "tags": ["Supervisions"],
                "summary": "List supervision pairings",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Supervisions"],
                "summary": "Assign an advisor to a student",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Pairing already exists"}
                }
            }
        },
        "/students/register": {
            "post": {
                "tags": ["Students"],
                "summary": "Self register a student account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "NIM already registered"}
                }
            }
        }
    },
    "definitions": {
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
