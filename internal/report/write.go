package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/azargarov/tasksched"
)

// WriteFile encodes rec with codec and atomically replaces path with the
// result.
func WriteFile(path string, rec tasksched.Record, codec Codec) (err error) {
	data, err := codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("report: encode %s: %w", codec.Name(), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp.Name()))
		}
	}()

	_, werr := tmp.Write(data)
	err = multierr.Combine(werr, tmp.Chmod(0o644), tmp.Sync(), tmp.Close())
	if err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// WriteText writes the human-readable summary block to w.
func WriteText(w io.Writer, s tasksched.Summary) error {
	_, err := io.WriteString(w, "\n"+s.String())
	return err
}
