package formwork

import _ "embed"

// Version is the current formwork release, read from the VERSION file at
// the repository root.
//
//go:embed VERSION
var Version string
