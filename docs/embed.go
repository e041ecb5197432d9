// Copyright © 2024 The pystyle authors

// Package docs embeds the pystyle style guide for use by the CLI.
package docs

import _ "embed"

//go:embed style-guide.md
var StyleGuide string
