package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range []string{"cv.schema.json"} {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestCV_Embedded(t *testing.T) {
	data, err := os.ReadFile("cv.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), CV)
}
