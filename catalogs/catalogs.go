// Package catalogs provides embedded example catalogs.
package catalogs

import (
	_ "embed"

	"github.com/gnana997/uidoc/pkg/catalog"
)

// ShadcnJSON is a starter catalog covering common shadcn/ui components,
// embedded at build time.
//
//go:embed shadcn/catalog.json
var ShadcnJSON []byte

// Shadcn decodes ShadcnJSON.
func Shadcn() (*catalog.Catalog, error) {
	return catalog.LoadBytes(ShadcnJSON, catalog.FormatJSON, catalog.LoadOptions{})
}
