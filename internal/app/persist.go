package app

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/core/vector"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/logger"
)

// loadList reads one entry per non-blank line ("[x] " marks done). The
// contents are installed outside the undo history. A missing file starts an
// empty list that will be created on write.
func (a *App) loadList(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Infof("App: '%s' does not exist, starting empty", path)
		return nil
	} else if err != nil {
		return fmt.Errorf("load list '%s': %w", path, err)
	}

	var entries []entry.Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			entries = append(entries, entry.Parse(line))
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("load list '%s': %w", path, err)
	}

	a.loading = true
	defer func() { a.loading = false }()

	scope, err := a.list.GroupScope(false)
	if err != nil {
		return err
	}
	defer scope.End()
	if err := a.list.Swap(vector.New(entries...)); err != nil {
		return err
	}
	logger.Infof("App: Loaded %d entries from '%s'", len(entries), path)
	return nil
}

// writeList writes the entries to path, or to the current list file.
func (a *App) writeList(path string) error {
	if path == "" {
		path = a.listPath
	}
	if path == "" {
		return errors.New("no file name (use :w <path>)")
	}
	var buf bytes.Buffer
	for _, e := range a.list.All() {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	a.listPath = path
	a.modified = false
	a.setStatusMessage("Wrote %d entries to %s", a.list.Len(), path)
	return nil
}

// defaultSnapshotPath returns ~/.config/tidelist/snapshot.json.
func defaultSnapshotPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, config.AppName, config.DefaultSnapshotFileName)
	}
	return config.DefaultSnapshotFileName
}

// saveSnapshot writes the indented history snapshot to path (default
// location when empty) and announces it.
func (a *App) saveSnapshot(path string) error {
	if path == "" {
		path = defaultSnapshotPath()
	}
	doc, err := a.list.SnapshotIndent()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, doc); err != nil {
		return err
	}
	logger.Infof("App: Snapshot written to '%s' (%d bytes)", path, len(doc))
	a.eventManager.Dispatch(event.TypeSnapshotSaved, event.SnapshotSavedData{Path: path, Bytes: len(doc)})
	return nil
}

// restoreSnapshot replaces contents and history with a snapshot file.
func (a *App) restoreSnapshot(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := a.list.Restore(doc); err != nil {
		return err
	}
	a.clampSelection()
	a.historyChanged("restore")
	a.setStatusMessage("Restored %d entries and %d history groups from %s", a.list.Len(), a.list.Depth(), path)
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, creating the directory if needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create '%s': %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
