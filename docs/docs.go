// Package docs expone el documento OpenAPI servida en /docs.
// swagger.json sigue las anotaciones godoc de internal/interfaces/http; se regenera con `swag init -g cmd/api/main.go`.
package docs

import _ "embed"

// SwaggerJSON contenido de swagger.json.
//
//go:embed swagger.json
var SwaggerJSON []byte
