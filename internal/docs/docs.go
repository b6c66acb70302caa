// Package docs registers the OpenAPI document served at /swagger/index.html.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List all books",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.BookResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/books/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Search books by title substring",
                "parameters": [{"type": "string", "name": "title", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.BookResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/books/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get a book",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.BookResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/genres": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List genres",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reserve": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "Request a reservation",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reservations.CreateReservationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/reservations.CreatedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierr.Error"}},
                    "409": {"description": "Book is not available", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/reserve/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "Cancel a reservation",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierr.Error"}},
                    "409": {"description": "Already declined", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/members/{id}/reservations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "List a member's reservations, newest first",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/reservations.ReservationResponse"}}}}
            }
        },
        "/reservations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "Get a reservation",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reservations.ReservationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/staff/reservations/all": {
            "get": {
                "produces": ["application/json"],
                "tags": ["staff"],
                "summary": "List every reservation, oldest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/reservations.ReservationResponse"}}}}
            }
        },
        "/staff/reservations/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["staff"],
                "summary": "Accept or decline a pending reservation",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reservations.ResolveReservationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unrecognized status", "schema": {"$ref": "#/definitions/apierr.Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierr.Error"}},
                    "409": {"description": "Not pending", "schema": {"$ref": "#/definitions/apierr.Error"}}
                }
            }
        },
        "/loans/active": {
            "get": {"produces": ["application/json"], "tags": ["circulation"], "summary": "Loans due today or later", "responses": {"200": {"description": "OK"}}}
        },
        "/staff/loans/checkedout": {
            "get": {"produces": ["application/json"], "tags": ["staff"], "summary": "Checked out loans by due date", "responses": {"200": {"description": "OK"}}}
        },
        "/staff/loans/checkedout/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["staff"],
                "summary": "Checked out loans as CSV",
                "parameters": [{"type": "string", "enum": ["utf-8", "utf-16", "shift_jis"], "name": "encoding", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unsupported encoding"}}
            }
        },
        "/staff/fines/summary": {
            "get": {"produces": ["application/json"], "tags": ["staff"], "summary": "Unpaid fines per member", "responses": {"200": {"description": "OK"}}}
        },
        "/analytics/genres": {
            "get": {"produces": ["application/json"], "tags": ["analytics"], "summary": "Books per genre", "responses": {"200": {"description": "OK"}}}
        },
        "/analytics/top-borrowed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Most borrowed books",
                "parameters": [{"type": "integer", "default": 10, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/status-count": {
            "get": {"produces": ["application/json"], "tags": ["analytics"], "summary": "Books per availability status", "responses": {"200": {"description": "OK"}}}
        },
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Issue a session token for a role",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "apierr.Error": {
            "type": "object",
            "properties": {
                "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}
            }
        },
        "catalog.BookResponse": {
            "type": "object",
            "properties": {
                "bookId": {"type": "integer"},
                "title": {"type": "string"},
                "edition": {"type": "string"},
                "publicationYear": {"type": "integer"},
                "price": {"type": "number"},
                "availabilityStatus": {"type": "string", "enum": ["Available", "Reserved", "CheckedOut"]},
                "genreId": {"type": "integer"}
            }
        },
        "reservations.CreateReservationRequest": {
            "type": "object",
            "required": ["bookId", "memberId"],
            "properties": {"bookId": {"type": "integer"}, "memberId": {"type": "integer"}}
        },
        "reservations.CreatedResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "reservationId": {"type": "integer"}}
        },
        "reservations.ResolveReservationRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["Accepted", "Declined"]}}
        },
        "reservations.ReservationResponse": {
            "type": "object",
            "properties": {
                "reservationId": {"type": "integer"},
                "memberId": {"type": "integer"},
                "bookId": {"type": "integer"},
                "title": {"type": "string"},
                "memberName": {"type": "string"},
                "reservationDate": {"type": "string", "format": "date-time"},
                "expiryDate": {"type": "string", "format": "date-time"},
                "status": {"type": "string", "enum": ["Pending", "Accepted", "Declined"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Library Reservation API",
	Description:      "Book catalog, reservation workflow and circulation reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
