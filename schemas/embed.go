// Package schemas holds the JSON Schemas for persisted artifacts.
package schemas

import _ "embed"

// CV is the schema of a persisted CV document.
//
//go:embed cv.schema.json
var CV string
