// Package docs регистрирует OpenAPI-описание API для /docs. Генерируется swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {"post": {"tags": ["Auth"], "summary": "Вход по имени и паролю", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyLogin"}}], "responses": {"200": {"description": "JWT"}, "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/register": {"post": {"tags": ["Auth"], "summary": "Регистрация пользователя", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyRegister"}}], "responses": {"201": {"description": "Пользователь создан"}, "400": {"description": "Пользователь существует", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/treby": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Список треб", "parameters": [{"type": "string", "in": "query", "name": "status"}, {"type": "string", "in": "query", "name": "type"}, {"type": "string", "in": "query", "name": "period"}, {"type": "string", "in": "query", "name": "from"}, {"type": "string", "in": "query", "name": "to"}, {"type": "integer", "in": "query", "name": "limit"}, {"type": "integer", "in": "query", "name": "offset"}], "responses": {"200": {"description": "Страница треб"}}},
            "post": {"tags": ["Treby"], "summary": "Подать требу", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyTreba"}}], "responses": {"201": {"description": "Треба создана"}, "400": {"description": "Нет допустимых имен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "429": {"description": "Слишком много запросов"}}}
        },
        "/treby/price": {"get": {"tags": ["Treby"], "summary": "Расчет стоимости", "parameters": [{"type": "string", "in": "query", "name": "type", "required": true}, {"type": "string", "in": "query", "name": "period", "required": true}, {"type": "integer", "in": "query", "name": "names", "required": true}], "responses": {"200": {"description": "Стоимость"}}}},
        "/treby/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Треба с именами и журналом", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "Треба"}, "404": {"description": "Не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Изменить поля требы", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyTrebaUpdate"}}], "responses": {"200": {"description": "Треба"}, "410": {"description": "Треба отменена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Отменить требу", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "Треба отменена"}, "410": {"description": "Уже отменена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/treby/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Сменить статус", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyStatusUpdate"}}], "responses": {"200": {"description": "Треба"}, "400": {"description": "Недопустимый переход", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "410": {"description": "Треба отменена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/treby/{id}/history": {"get": {"security": [{"BearerAuth": []}], "tags": ["Treby"], "summary": "Журнал статусов", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "Журнал"}}}},
        "/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Список платежей", "responses": {"200": {"description": "Страница платежей"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Создать платеж", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.DummyPayment"}}], "responses": {"201": {"description": "Платеж"}, "400": {"description": "Платеж уже есть", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/payments/{id}/confirm": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Подтвердить платеж", "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "Платеж"}, "400": {"description": "Уже подтвержден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/payments/webhook": {"post": {"tags": ["Payments"], "summary": "Уведомление провайдера", "parameters": [{"type": "string", "in": "header", "name": "X-Api-Signature", "required": true}], "responses": {"200": {"description": "Принято"}, "401": {"description": "Неверная подпись", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}}
    },
    "definitions": {
        "response.ErrorResponse": {"type": "object", "properties": {"status": {"type": "string", "example": "Error"}, "error": {"type": "string", "example": "invalid request body"}}},
        "models.NameInput": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}, "type": {"type": "string", "enum": ["health", "repose"]}}},
        "models.DummyTreba": {"type": "object", "required": ["type", "period", "names"], "properties": {"type": {"type": "string"}, "period": {"type": "string"}, "custom_date": {"type": "string", "example": "07-01-2026"}, "names": {"type": "array", "items": {"$ref": "#/definitions/models.NameInput"}}, "requester_name": {"type": "string"}, "requester_email": {"type": "string"}, "note": {"type": "string"}}},
        "models.DummyTrebaUpdate": {"type": "object", "properties": {"type": {"type": "string"}, "period": {"type": "string"}, "custom_date": {"type": "string"}, "names": {"type": "array", "items": {"$ref": "#/definitions/models.NameInput"}}, "requester_name": {"type": "string"}, "requester_email": {"type": "string"}, "note": {"type": "string"}}},
        "models.DummyStatusUpdate": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["pending", "paid", "completed", "cancelled"]}, "comment": {"type": "string"}}},
        "models.DummyPayment": {"type": "object", "required": ["treba_id"], "properties": {"treba_id": {"type": "integer"}, "amount": {"type": "integer"}, "currency": {"type": "string"}, "method": {"type": "string"}, "external_id": {"type": "string"}}},
        "models.DummyLogin": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "models.DummyRegister": {"type": "object", "required": ["email", "username", "password"], "properties": {"email": {"type": "string"}, "username": {"type": "string"}, "password": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo содержит экспортируемую информацию Swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Monastery Admin API",
	Description:      "API обители: требы, платежи, новости, календарь, уведомления",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
