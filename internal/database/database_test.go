package database_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/openfacture/internal/database"
)

func TestSchema(t *testing.T) {
	schema := database.Schema()

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS invoices",
		"CREATE TABLE IF NOT EXISTS invoice_items",
		"invoices_user_id_number_key UNIQUE (user_id, number)",
		"ON DELETE CASCADE",
	} {
		assert.True(t, strings.Contains(schema, want), "schema is missing %q", want)
	}
}
