package pangenome

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang/snappy"
)

// Snapshot is the binary copy of a post-treated pangenome, reloaded instead of
// grouping the families again.
type Snapshot struct {
	Genomes  []string
	Families Families
	ByStrain FamsByStrain
}

// SaveSnapshot writes s to path unless a file already exists there. It
// reports whether the file was written.
func SaveSnapshot(path string, s *Snapshot) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sw := snappy.NewBufferedWriter(f)
	err = gob.NewEncoder(sw).Encode(s)
	if cerr := sw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return false, fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return true, nil
}

func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(snappy.NewReader(f)).Decode(&s); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return &s, nil
}
