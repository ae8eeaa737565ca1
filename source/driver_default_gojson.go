// Package source installs the go-json driver as the default strict JSON
// driver. Import it for its side effect:
//
//	import _ "github.com/reoring/jsonb/source"
package source

import (
	"github.com/reoring/jsonb"
	drvgojson "github.com/reoring/jsonb/source/gojson"
)

// init in a separate package to avoid an import cycle in the root.
func init() { jsonb.SetJSONDriver(drvgojson.Driver()) }
