package agent

import (
	"strings"
	"testing"
)

// TestRasterizeScriptUsesSVGCanvasPipeline pins the screenshot mechanism
// spec.md §4.B prescribes — an inline SVG <foreignObject> rasterized
// through a canvas, not a native host-level capture — so a future change
// back to a host Screenshot hook doesn't silently regress.
func TestRasterizeScriptUsesSVGCanvasPipeline(t *testing.T) {
	for _, want := range []string{
		"new XMLSerializer()",
		"<svg xmlns=",
		"<foreignObject",
		"new Image()",
		"document.createElement('canvas')",
		"toDataURL('image/png')",
		"done(__dataURL",
	} {
		if !strings.Contains(rasterizeScript, want) {
			t.Errorf("rasterizeScript missing %q:\n%s", want, rasterizeScript)
		}
	}
}
