package schemas

import "embed"

// SchemasFS - встроенные JSON-схемы событий. Версионируются по папкам:
// events/<event-name>/v<N>.json.
//
//go:embed events
var SchemasFS embed.FS
