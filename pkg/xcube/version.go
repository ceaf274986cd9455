// Package xcube holds build metadata for the xcube tool.
package xcube

// Version is the release version. Builds may override it with
// -ldflags "-X github.com/mesh-intelligence/xcube/pkg/xcube.Version=...".
var Version = "0.1.0"

// ModulePath is the Go module path of the tool.
const ModulePath = "github.com/mesh-intelligence/xcube"
