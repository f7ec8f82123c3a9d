package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SACC5i API",
        "description": "Sistema de Atención a Solicitudes Ciudadanas C5i",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Autenticación", "description": "Inicio de sesión y perfil"},
        {"name": "Trámites", "description": "Ciclo de vida de solicitudes"},
        {"name": "Catálogos", "description": "Catálogos de referencia"},
        {"name": "Usuarios", "description": "Administración de cuentas"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Autenticación"],
                "summary": "Iniciar sesión",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Credenciales inválidas"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Autenticación"],
                "summary": "Perfil del usuario autenticado",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Autenticación"],
                "summary": "Actualizar perfil",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Autenticación"],
                "summary": "Cambiar contraseña",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Contraseña actual incorrecta"}
                }
            }
        },
        "/tramites/alta/nueva-solicitud": {
            "post": {
                "tags": ["Trámites"],
                "summary": "Registrar nueva solicitud",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CrearSolicitudRequest"}}
                ],
                "responses": {
                    "201": {"description": "Creada", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Solicitud inválida"}
                }
            }
        },
        "/tramites/{id}/personas": {
            "post": {
                "tags": ["Trámites"],
                "summary": "Registrar el personal de una solicitud",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Solicitud no encontrada"}
                }
            }
        },
        "/tramites/{id}/validar-personal": {
            "post": {
                "tags": ["Trámites"],
                "summary": "Dictaminar una persona (validación C5)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Persona no encontrada"}
                }
            }
        },
        "/tramites/{id}/enviar-a-c3": {
            "post": {
                "tags": ["Trámites"],
                "summary": "Enviar la solicitud a C3",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Enviada"},
                    "400": {"description": "Personal sin dictamen completo"}
                }
            }
        },
        "/tramites/{id}/dictamen-c3": {
            "post": {
                "tags": ["Trámites"],
                "summary": "Registrar el dictamen de C3",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Fase inválida"}
                }
            }
        },
        "/tramites/mis-solicitudes": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Listar solicitudes visibles",
                "parameters": [
                    {"name": "fase", "in": "query", "type": "string"},
                    {"name": "estatus_id", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tramites/mis-solicitudes/export": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Exportar el listado como CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV"}
                }
            }
        },
        "/tramites/pendientes-c3": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Bandeja de C3",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tramites/validados-c3": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Solicitudes dictaminadas por C3",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tramites/{id}": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Detalle de una solicitud",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Solicitud no encontrada"}
                }
            }
        },
        "/tramites/{id}/constancia": {
            "get": {
                "tags": ["Trámites"],
                "summary": "Constancia PDF de una solicitud",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF"}
                }
            }
        },
        "/catalogos/regiones": {
            "get": {"tags": ["Catálogos"], "summary": "Regiones", "responses": {"200": {"description": "OK"}}}
        },
        "/catalogos/municipios": {
            "get": {
                "tags": ["Catálogos"],
                "summary": "Municipios",
                "parameters": [{"name": "region_id", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/catalogos/tipos-oficio": {
            "get": {"tags": ["Catálogos"], "summary": "Tipos de oficio", "responses": {"200": {"description": "OK"}}}
        },
        "/catalogos/motivos-rechazo": {
            "get": {
                "tags": ["Catálogos"],
                "summary": "Motivos de rechazo",
                "parameters": [{"name": "categoria", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/catalogos/estatus": {
            "get": {"tags": ["Catálogos"], "summary": "Estatus", "responses": {"200": {"description": "OK"}}}
        },
        "/catalogos/puestos-propuestos": {
            "get": {"tags": ["Catálogos"], "summary": "Puestos propuestos", "responses": {"200": {"description": "OK"}}}
        },
        "/usuarios": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "Listar cuentas",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Usuarios"],
                "summary": "Crear cuenta",
                "responses": {"201": {"description": "Creada"}, "409": {"description": "Usuario duplicado"}}
            }
        },
        "/usuarios/{id}": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "Consultar cuenta",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No encontrada"}}
            },
            "put": {
                "tags": ["Usuarios"],
                "summary": "Actualizar cuenta",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No encontrada"}}
            },
            "delete": {
                "tags": ["Usuarios"],
                "summary": "Desactivar cuenta",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Desactivada"}, "404": {"description": "No encontrada"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["usuario", "password"],
            "properties": {
                "usuario": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CrearSolicitudRequest": {
            "type": "object",
            "required": ["tipo_oficio_id", "municipio_id", "fecha_solicitud"],
            "properties": {
                "tipo_oficio_id": {"type": "string"},
                "municipio_id": {"type": "string"},
                "numero_oficio": {"type": "string"},
                "asunto": {"type": "string"},
                "cantidad_personal": {"type": "integer"},
                "fecha_sello": {"type": "string", "format": "date-time"},
                "fecha_recepcion": {"type": "string", "format": "date-time"},
                "fecha_solicitud": {"type": "string", "format": "date-time"},
                "observaciones": {"type": "string"}
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "error": {"type": "string"}
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
