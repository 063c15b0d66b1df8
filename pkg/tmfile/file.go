// Package tmfile reads and writes rule listings (.tm files) and loads them
// in the background for the interactive editor.
package tmfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the extension of rule listing files.
const Ext = ".tm"

// ErrNotTM is returned for paths without the .tm extension.
var ErrNotTM = errors.New("not a .tm file")

// CheckExt returns ErrNotTM unless path ends in .tm (any case).
func CheckExt(path string) error {
	if !strings.EqualFold(filepath.Ext(path), Ext) {
		return fmt.Errorf("%s: %w", path, ErrNotTM)
	}
	return nil
}

// WithExt appends .tm to path unless it already has it.
func WithExt(path string) string {
	if CheckExt(path) == nil {
		return path
	}
	return path + Ext
}

// ReadTM reads a whole rule listing.
func ReadTM(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTM writes a rule listing, ending it with a newline.
func WriteTM(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// ReadFile reads a .tm file.
func ReadFile(path string) (string, error) {
	if err := CheckExt(path); err != nil {
		return "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return ReadTM(file)
}

// WriteFile writes a .tm file.
func WriteFile(path, text string) error {
	if err := CheckExt(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTM(file, text); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
