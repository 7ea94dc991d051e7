// Package docs registra la especificación OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/api/main.go -o docs
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
        "/auth/sign-in": {
            "post": {
                "tags": ["auth"],
                "summary": "Inicia sesión con teléfono y contraseña",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "tags": ["auth"],
                "summary": "Registra un cuidador titular y su familia",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-out": {
            "post": {
                "tags": ["auth"],
                "summary": "Cierra la sesión",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Cuidador y familia del principal",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/babies": {
            "get": {"tags": ["babies"], "summary": "Lista los bebés activos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["babies"], "summary": "Registra un bebé", "responses": {"201": {"description": "Created"}}}
        },
        "/caregivers": {
            "get": {"tags": ["caregivers"], "summary": "Lista los cuidadores de la familia", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["caregivers"], "summary": "Agrega un cuidador", "responses": {"201": {"description": "Created"}}}
        },
        "/activities/{kind}": {
            "get": {"tags": ["activities"], "summary": "Lista registros de un tipo", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["activities"], "summary": "Crea un registro desde el formulario completo", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/quick-actions/start": {
            "post": {"tags": ["quick-actions"], "summary": "Inicia una actividad cronometrada", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/quick-actions/stop": {
            "post": {"tags": ["quick-actions"], "summary": "Detiene una actividad en curso", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/quick-actions/diaper": {
            "post": {"tags": ["quick-actions"], "summary": "Registra un pañal con valores por defecto", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/dashboard": {
            "get": {"tags": ["dashboard"], "summary": "Resumen de la familia", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard/diapers": {
            "get": {"tags": ["dashboard"], "summary": "Estadísticas y gráfico de pañales", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Baby Care Tracker API",
	Description:      "Registro de sueño, alimentación, paseos, pañales y crecimiento de los bebés de una familia.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
