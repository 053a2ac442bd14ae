package schemas

import (
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"candidate_profile.schema.json",
	"job_listing.schema.json",
	"job_listings.schema.json",
	"weights.schema.json",
	"user_preferences.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare type and $schema")
		})
	}
}

func TestEmbeddedFS_MatchesDirectory(t *testing.T) {
	embedded, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, schemaFiles, embedded)

	for _, name := range embedded {
		onDisk, err := os.ReadFile(name)
		require.NoError(t, err)
		inFS, err := FS.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(string(onDisk)), strings.TrimSpace(string(inFS)))
	}
}
