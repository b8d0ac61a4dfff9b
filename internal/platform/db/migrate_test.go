package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDefinesAuthorizationTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"roles", "users", "audit_logs"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "REFERENCES roles(id) ON DELETE SET NULL")
	assert.True(t, strings.Contains(schema, "permissions_override TEXT[]"))
}
