// Package deckfile writes cubes as deck files for third-party deck editors
// and post-processes XMage deck files.
package deckfile

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// Exporter renders a cube in one deck editor's format.
type Exporter interface {
	// Style names the format in log output.
	Style() string
	// Format renders the whole file.
	Format(cube *types.Cube) string
}

// Export formats cube with exporter and writes it to path as UTF-8.
func Export(exporter Exporter, cube *types.Cube, path string, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log.Infof("Formatting cube data (format: %s)", exporter.Style())

	data := exporter.Format(cube)

	log.Info("Cube data formatted; ready to export")

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	log.Infof("Cube data exported to %s", path)
	return nil
}
