// Package docs holds the Swagger document served at /swagger. It is maintained by
// hand alongside the handler annotations.
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
        "/cache/clear": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Drops every cached exchange rate and the cached currency catalog.",
                "tags": ["cache"],
                "summary": "Clear the rate cache",
                "responses": {
                    "204": {"description": "Cache cleared"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/conversions/convert": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Converts every item, in order. Items whose rate cannot be determined are reported as failed; the rest still convert.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversions"],
                "summary": "Convert amounts in bulk",
                "parameters": [
                    {"description": "Items to convert", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ConvertRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConvertResponse"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/conversions/currency-change": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Re-denominates every transaction, budget, loan and investment from one currency to another. Runs immediately when online and idle (200), otherwise the change is queued (202).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversions"],
                "summary": "Change the currency of all records",
                "parameters": [
                    {"description": "Currency pair", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CurrencyChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Migration executed; outcome is completed or failed", "schema": {"$ref": "#/definitions/dto.CurrencyChangeResponse"}},
                    "202": {"description": "Migration queued", "schema": {"$ref": "#/definitions/dto.CurrencyChangeResponse"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to persist the conversion queue", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/conversions/queue": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns every conversion task of the user with its progress counters.",
                "produces": ["application/json"],
                "tags": ["conversions"],
                "summary": "Get the conversion queue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QueueStatusResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/conversions/queue/finished": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Drops completed and failed tasks from the queue. Pending and running tasks are kept.",
                "produces": ["application/json"],
                "tags": ["conversions"],
                "summary": "Remove finished conversion tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ClearTasksResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to persist the conversion queue", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/currencies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves the currency catalog. Served from cache, or built-in defaults when the provider is unreachable.",
                "produces": ["application/json"],
                "tags": ["currencies"],
                "summary": "List all currencies",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.CurrencyResponse"}}},
                    "500": {"description": "Failed to list currencies", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds or updates a catalog entry. Symbol and decimal places default to ISO 4217 values.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["currencies"],
                "summary": "Create a new currency",
                "parameters": [
                    {"description": "Currency details", "name": "currency", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCurrencyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CurrencyResponse"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to create currency", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/currencies/preferences": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["currencies"],
                "summary": "List the caller's currency preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListCurrencyPreferencesResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to list currency preferences", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Setting isPrimary clears the caller's previous primary currency.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["currencies"],
                "summary": "Add or update a currency preference",
                "parameters": [
                    {"description": "Preference", "name": "preference", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetCurrencyPreferenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CurrencyPreferenceResponse"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to save currency preference", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/currencies/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves details for a specific currency by its code",
                "produces": ["application/json"],
                "tags": ["currencies"],
                "summary": "Get a currency by code",
                "parameters": [
                    {"maxLength": 5, "minLength": 3, "type": "string", "description": "Currency Code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CurrencyResponse"}},
                    "400": {"description": "Invalid currency code", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Currency not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to retrieve currency", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/exchange-rates": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores a manual rate for a currency pair and date. Stored rates are served when the remote providers are unreachable.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exchange rates"],
                "summary": "Record an exchange rate",
                "parameters": [
                    {"description": "Exchange Rate details", "name": "rate", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateExchangeRateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ExchangeRateResponse"}},
                    "400": {"description": "Invalid input format or validation error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to create exchange rate", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/exchange-rates/{from}/{to}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the current rate for a currency pair through the rate cache. The origin field tells whether it is live, cached, stale, inverse or the neutral fallback.",
                "produces": ["application/json"],
                "tags": ["exchange rates"],
                "summary": "Get an exchange rate",
                "parameters": [
                    {"maxLength": 5, "minLength": 3, "type": "string", "description": "From Currency Code", "name": "from", "in": "path", "required": true},
                    {"maxLength": 5, "minLength": 3, "type": "string", "description": "To Currency Code", "name": "to", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RateQuoteResponse"}},
                    "400": {"description": "Invalid currency code format", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to retrieve exchange rate", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ClearTasksResponse": {
            "type": "object",
            "properties": {"removed": {"type": "integer"}}
        },
        "dto.ConvertItemRequest": {
            "type": "object",
            "required": ["from", "id", "to"],
            "properties": {
                "amount": {"type": "number"},
                "from": {"type": "string"},
                "id": {"type": "string"},
                "to": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "dto.ConvertRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "maxItems": 1000, "minItems": 1, "items": {"$ref": "#/definitions/dto.ConvertItemRequest"}}
            }
        },
        "dto.ConvertResultResponse": {
            "type": "object",
            "properties": {
                "convertedAmount": {"type": "number"},
                "display": {"type": "string"},
                "error": {"type": "string"},
                "id": {"type": "string"},
                "rate": {"type": "number"},
                "success": {"type": "boolean"},
                "type": {"type": "string"}
            }
        },
        "dto.ConvertResponse": {
            "type": "object",
            "properties": {
                "failed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/dto.ConvertResultResponse"}},
                "succeeded": {"type": "integer"}
            }
        },
        "dto.ConversionTaskResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "error": {"type": "string"},
                "failedItems": {"type": "array", "items": {"$ref": "#/definitions/domain.FailedItem"}},
                "fromCurrency": {"type": "string"},
                "id": {"type": "string"},
                "itemsFailed": {"type": "integer"},
                "itemsProcessed": {"type": "integer"},
                "itemsToProcess": {"type": "integer"},
                "processedAt": {"type": "string"},
                "status": {"type": "string"},
                "toCurrency": {"type": "string"}
            }
        },
        "domain.FailedItem": {
            "type": "object",
            "properties": {
                "domain": {"type": "string"},
                "error": {"type": "string"},
                "recordID": {"type": "string"}
            }
        },
        "dto.CreateCurrencyRequest": {
            "type": "object",
            "required": ["currencyCode", "name", "symbol"],
            "properties": {
                "currencyCode": {"type": "string"},
                "decimalPlaces": {"type": "integer", "maximum": 18, "minimum": 0},
                "isActive": {"type": "boolean"},
                "name": {"type": "string"},
                "symbol": {"type": "string"}
            }
        },
        "dto.CreateExchangeRateRequest": {
            "type": "object",
            "required": ["dateEffective", "fromCurrencyCode", "rate", "toCurrencyCode"],
            "properties": {
                "dateEffective": {"type": "string"},
                "fromCurrencyCode": {"type": "string"},
                "rate": {"type": "number"},
                "toCurrencyCode": {"type": "string"}
            }
        },
        "dto.CurrencyChangeRequest": {
            "type": "object",
            "required": ["fromCurrency", "toCurrency"],
            "properties": {
                "fromCurrency": {"type": "string"},
                "toCurrency": {"type": "string"}
            }
        },
        "dto.CurrencyChangeResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string"},
                "task": {"$ref": "#/definitions/dto.ConversionTaskResponse"}
            }
        },
        "dto.CurrencyPreferenceResponse": {
            "type": "object",
            "properties": {
                "currencyCode": {"type": "string"},
                "displayOrder": {"type": "integer"},
                "isPrimary": {"type": "boolean"},
                "preferenceID": {"type": "string"}
            }
        },
        "dto.CurrencyResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "createdBy": {"type": "string"},
                "currencyCode": {"type": "string"},
                "decimalPlaces": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "name": {"type": "string"},
                "symbol": {"type": "string"}
            }
        },
        "dto.ExchangeRateResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "createdBy": {"type": "string"},
                "dateEffective": {"type": "string"},
                "exchangeRateID": {"type": "string"},
                "fromCurrencyCode": {"type": "string"},
                "rate": {"type": "number"},
                "toCurrencyCode": {"type": "string"}
            }
        },
        "dto.ListCurrencyPreferencesResponse": {
            "type": "object",
            "properties": {
                "preferences": {"type": "array", "items": {"$ref": "#/definitions/dto.CurrencyPreferenceResponse"}}
            }
        },
        "dto.QueueStatusResponse": {
            "type": "object",
            "properties": {
                "isProcessing": {"type": "boolean"},
                "pending": {"type": "integer"},
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/dto.ConversionTaskResponse"}}
            }
        },
        "dto.RateQuoteResponse": {
            "type": "object",
            "properties": {
                "fetchedAt": {"type": "string"},
                "fromCurrencyCode": {"type": "string"},
                "live": {"type": "boolean"},
                "origin": {"type": "string"},
                "rate": {"type": "number"},
                "toCurrencyCode": {"type": "string"}
            }
        },
        "dto.SetCurrencyPreferenceRequest": {
            "type": "object",
            "required": ["currencyCode"],
            "properties": {
                "currencyCode": {"type": "string"},
                "isPrimary": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MMA Currency API",
	Description:      "Currency conversion engine: cached exchange rates, bulk conversion and queued per-user currency migrations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
