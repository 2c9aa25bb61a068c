package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedFilename is returned when a filename has no extension separator.
var ErrMalformedFilename = errors.New("malformed filename")

const (
	countWidth = 4
	paramWidth = 8
)

// Template is a filename split at its last '.'. Ext keeps the dot.
type Template struct {
	Base string
	Ext  string
}

// ParseTemplate splits filename into base and extension.
func ParseTemplate(filename string) (Template, error) {
	idx := strings.LastIndexByte(filename, '.')
	if filename == "" || idx < 0 {
		return Template{}, fmt.Errorf("%w: %q has no extension", ErrMalformedFilename, filename)
	}
	return Template{Base: filename[:idx], Ext: filename[idx:]}, nil
}

// Frame names the count-th frame of a family: base.0007.ext
func (t Template) Frame(count int) string {
	return t.Base + "." + pad(strconv.Itoa(count), countWidth) + t.Ext
}

// FrameParam names a frame that also carries a continuous parameter: base.0003.0.5.ext
// Names from Frame and FrameParam do not sort together.
func (t Template) FrameParam(count int, param float64) string {
	field := pad(strconv.Itoa(count), countWidth) + "." + Param(param)
	return t.Base + "." + pad(field, paramWidth) + t.Ext
}

// Param formats a continuous parameter the way FrameParam embeds it: one decimal place.
// Two parameters with the same Param give the same filename.
func Param(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ImageFamily is ParseTemplate followed by Frame.
func ImageFamily(filename string, count int) (string, error) {
	t, err := ParseTemplate(filename)
	if err != nil {
		return "", err
	}
	return t.Frame(count), nil
}

// ImageFamilyParam is ParseTemplate followed by FrameParam.
func ImageFamilyParam(filename string, count int, param float64) (string, error) {
	t, err := ParseTemplate(filename)
	if err != nil {
		return "", err
	}
	return t.FrameParam(count, param), nil
}

// pad left-pads s with zeros to width. Wider strings are returned as is.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
