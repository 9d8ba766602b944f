//go:build !tesseract

package ocr

// Available reports whether Tesseract support is compiled in.
const Available = false

// NewReader always fails with ErrUnavailable in builds without the
// tesseract tag.
func NewReader() (LabelReader, error) {
	return nil, ErrUnavailable
}
