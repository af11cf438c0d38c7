// internal/builder/writer.go
package builder

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// writeIfChanged writes data to path unless the file already holds exactly
// those bytes. It reports whether the file was written.
func writeIfChanged(path string, data []byte) (bool, error) {
	sum := blake3.Sum256(data)
	existing, err := fileDigest(path)
	if err == nil && existing == sum {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// copyIfChanged copies src to dest unless both already have the same digest.
func copyIfChanged(src, dest string) (bool, error) {
	srcSum, err := fileDigest(src)
	if err != nil {
		return false, err
	}
	destSum, err := fileDigest(dest)
	if err == nil && destSum == srcSum {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, err
	}
	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return false, err
	}
	return true, out.Close()
}

func fileDigest(path string) ([32]byte, error) {
	var sum [32]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
