package tables

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"
)

// Manifest records what Generate wrote so that a deployment can be
// checked before any game relies on it.
type Manifest struct {
	Tables []Entry `yaml:"tables"`
}

// Entry describes one table file.
type Entry struct {
	Name   string `yaml:"name"`
	Rows   int    `yaml:"rows"`
	Digest string `yaml:"xxhash64"`
}

func formatDigest(d uint64) string {
	return strconv.FormatUint(d, 16)
}

func (m *Manifest) WriteFile(path string) error {
	bts, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bts, 0o644)
}

// ReadManifest loads the manifest from src.
func ReadManifest(src Source) (*Manifest, error) {
	rc, err := src.Open(ManifestFilename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	bts, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(bts, m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrManifestMismatch, err)
	}
	return m, nil
}

// Verify checks every table listed in dir's manifest against its digest
// and row count, and that no expected table is missing from the manifest.
func Verify(dir string) error {
	m, err := ReadManifest(Dir(dir))
	if err != nil {
		return err
	}
	listed := map[string]Entry{}
	for _, e := range m.Tables {
		listed[e.Name] = e
	}
	for _, name := range AllFilenames() {
		e, ok := listed[name]
		if !ok {
			return fmt.Errorf("%w: %s not listed", ErrManifestMismatch, name)
		}
		digest, rows, err := digestFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if digest != e.Digest || rows != e.Rows {
			return fmt.Errorf("%w: %s has digest %s (%d rows), manifest says %s (%d rows)",
				ErrManifestMismatch, name, digest, rows, e.Digest, e.Rows)
		}
	}
	return nil
}

func digestFile(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := xxhash.New()
	rows := 0
	sc := bufio.NewScanner(io.TeeReader(f, h))
	for sc.Scan() {
		rows++
	}
	if err := sc.Err(); err != nil {
		return "", 0, err
	}
	return formatDigest(h.Sum64()), rows, nil
}
