package render

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/stageflow/pkg/errors"
)

// rsvgBinary is the librsvg command-line converter. Tests may point it at a
// missing name to exercise the unsupported path.
var rsvgBinary = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvg(svg, "pdf")
}

// ToPNG converts an SVG document to PNG, scaled by zoom (2 doubles the
// pixel size).
func ToPNG(svg []byte, zoom float64) ([]byte, error) {
	return rsvg(svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

// rsvg pipes svg through rsvg-convert. A missing binary is reported as
// UNSUPPORTED with install hints, a failed run as INTERNAL_ERROR carrying
// the tool's stderr.
func rsvg(svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s output needs %s (brew install librsvg, or apt install librsvg2-bin)", format, rsvgBinary)
	}

	cmd := exec.Command(bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err,
			"%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
