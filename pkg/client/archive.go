package client

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/gzip"
)

// writeArchive writes path as a single-entry gzip compressed cpio archive.
func writeArchive(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(w)
	cw := cpio.NewWriter(zw)

	hdr := &cpio.Header{
		Name:    "./" + filepath.Base(path),
		Mode:    cpio.TypeReg | cpio.FileMode(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := cw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(cw, f); err != nil {
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return zw.Close()
}
