package vm

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// LoadImage reads a binary image from name and returns its bytes. The image
// is the raw byte encoding described by the assembler: no header, no
// length-prefix, just opcodes and operands starting at address 0.
func LoadImage(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open image %q", name)
	}
	defer f.Close()

	img, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read image %q", name)
	}
	if len(img) > MemSize {
		return nil, errors.Errorf("image %q is %d bytes, exceeds %d byte memory", name, len(img), MemSize)
	}
	return img, nil
}

// SaveImage writes img to name, truncating any existing file.
func SaveImage(name string, img []byte) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create image %q", name)
	}
	defer f.Close()

	if _, err := f.Write(img); err != nil {
		return errors.Wrapf(err, "write image %q", name)
	}
	return nil
}
