package embedded

import _ "embed"

// HelpData contains the embedded in-session help text in markdown.
//
//go:embed help/help.md
var HelpData []byte
