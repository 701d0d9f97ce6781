package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Provisiona-api/docs"
)

func TestSwaggerJSON_DocumentaLasRutas(t *testing.T) {
	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(docs.SwaggerJSON, &doc))
	assert.Equal(t, "2.0", doc.Swagger)

	for path, methods := range map[string][]string{
		"/api/auth/register":                 {"post"},
		"/api/auth/login":                    {"post"},
		"/api/profile":                       {"get", "put"},
		"/api/monthly-inputs":                {"get", "put"},
		"/api/monthly-inputs/{year}/{month}": {"get"},
		"/api/provision/estimate":            {"get"},
		"/api/provision/history":             {"get"},
		"/api/provision/report.pdf":          {"get"},
		"/api/chat":                          {"post"},
		"/api/chat/messages":                 {"get", "delete"},
		"/api/documents":                     {"get", "post"},
		"/api/documents/{id}":                {"get", "delete"},
	} {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, path)
		}
	}
}
