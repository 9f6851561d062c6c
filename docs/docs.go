// Package docs contém a especificação Swagger servida em /swagger/.
// Mantida no formato gerado pelo swag (swag init -g cmd/main.go).
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Autentica um usuário e retorna um JWT",
                "parameters": [
                    {"description": "Credenciais do usuário", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token JWT emitido", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "400": {"description": "Campos vazios ou inválidos", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Encerra a sessão revogando o token atual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Apenas administradores. A senha é salva em hash bcrypt.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Registra um novo usuário",
                "parameters": [
                    {"description": "Usuário, senha e role (admin ou user)", "name": "registration", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}
                ],
                "responses": {
                    "201": {"description": "Usuário criado com sucesso", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Sem permissão", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Usuário já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/genders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Opções de gênero",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.GenderChoice"}}}
                }
            }
        },
        "/people": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Sem search devolve todos; com search filtra por início do nome, trecho do CPF ou trecho do e-mail.",
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Lista pessoas físicas",
                "parameters": [
                    {"type": "string", "description": "Termo de busca", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/person.PersonResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Valida todos os campos do formulário, armazena a foto e persiste o registro.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Cadastra uma pessoa física",
                "parameters": [
                    {"type": "string", "description": "Nome (4 a 50 caracteres)", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "E-mail", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "CPF (com ou sem pontuação)", "name": "cpf", "in": "formData", "required": true},
                    {"type": "string", "description": "M, F ou O", "name": "gender", "in": "formData", "required": true},
                    {"type": "string", "description": "dd/mm/aaaa ou aaaa-mm-dd", "name": "birthday", "in": "formData", "required": true},
                    {"type": "string", "description": "Renda em reais (ex.: 1.500,75)", "name": "income_range", "in": "formData", "required": true},
                    {"type": "string", "description": "true ou false", "name": "status", "in": "formData", "required": true},
                    {"type": "string", "description": "Descrição (até 200 caracteres)", "name": "description", "in": "formData"},
                    {"type": "file", "description": "Foto", "name": "picture", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/person.PersonResponse"}},
                    "400": {"description": "Falhas de validação por campo", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/people/report": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Maior, menor e média de renda, pessoas acima/abaixo/na média e contagem por gênero.",
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Relatório de renda",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ReportSummary"}},
                    "404": {"description": "Nenhum registro para o relatório", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/people/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Detalhe de uma pessoa física",
                "parameters": [
                    {"type": "string", "description": "ID da pessoa (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/person.PersonResponse"}},
                    "400": {"description": "ID inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Pessoa não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "O CPF não pode ser alterado; o valor enviado é ignorado. A foto é opcional.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["people"],
                "summary": "Atualiza uma pessoa física",
                "parameters": [
                    {"type": "string", "description": "ID da pessoa (UUID)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Nome", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "E-mail", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "M, F ou O", "name": "gender", "in": "formData", "required": true},
                    {"type": "string", "description": "Data de nascimento", "name": "birthday", "in": "formData", "required": true},
                    {"type": "string", "description": "Renda em reais", "name": "income_range", "in": "formData", "required": true},
                    {"type": "string", "description": "true ou false", "name": "status", "in": "formData", "required": true},
                    {"type": "string", "description": "Descrição", "name": "description", "in": "formData"},
                    {"type": "file", "description": "Nova foto", "name": "picture", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/person.PersonResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["people"],
                "summary": "Remove uma pessoa física",
                "parameters": [
                    {"type": "string", "description": "ID da pessoa (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "category": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string", "example": "Erro de Validação: cpf: Invalid CPF."},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.GenderChoice": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.UserRegistration": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "person.PersonResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "picture": {"type": "string"},
                "status": {"type": "boolean"},
                "description": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "cpf": {"type": "string"},
                "gender": {"type": "string"},
                "birthday": {"type": "string", "example": "1990-05-10"},
                "income_range": {"type": "string", "example": "1500.75"},
                "income_range_fmt": {"type": "string", "example": "R$ 1500,75"}
            }
        },
        "domain.ReportSummary": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "highest_income_person": {"type": "object"},
                "lowest_income_person": {"type": "object"},
                "max_income": {"type": "string"},
                "min_income": {"type": "string"},
                "avg_income": {"type": "string"},
                "people_above_avg": {"type": "array", "items": {"type": "object"}},
                "people_below_avg": {"type": "array", "items": {"type": "object"}},
                "people_equal_avg": {"type": "array", "items": {"type": "object"}},
                "male_count": {"type": "integer"},
                "female_count": {"type": "integer"},
                "other_count": {"type": "integer"},
                "total_income": {"type": "string"}
            }
        },
        "user.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "password": {"type": "string", "example": "secret"}
            }
        },
        "user.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "user.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "gopeople API",
	Description:      "Cadastro de pessoas físicas com validação de campos e relatório de renda.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
