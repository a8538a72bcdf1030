// Package configs embeds the default game, level and bot files.
package configs

import "embed"

//go:embed game.json game.schema.json levels/*.yaml bots/*.yaml
var FS embed.FS
