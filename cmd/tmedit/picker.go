package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ha1tch/turing-graph/pkg/tmfile"
)

// filePicker is the two-column open dialog: directories on the left, .tm
// files on the right. It also serves as the loader's Picker; the loader's
// goroutine blocks in Pick until the dialog is confirmed or cancelled.
type filePicker struct {
	dir          string
	dirs         []string
	files        []string
	dirSelected  int
	fileSelected int
	focus        int // 0 = directories, 1 = files

	choice chan string
	cancel chan struct{}
}

func newFilePicker(dir string) *filePicker {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	p := &filePicker{
		dir:    dir,
		focus:  1,
		choice: make(chan string, 1),
		cancel: make(chan struct{}),
	}
	p.refresh()
	return p
}

// refresh lists the current directory.
func (p *filePicker) refresh() {
	p.dirs = []string{".."}
	p.files = nil
	entries, err := os.ReadDir(p.dir)
	if err == nil {
		for _, e := range entries {
			name := e.Name()
			switch {
			case strings.HasPrefix(name, "."):
			case e.IsDir():
				p.dirs = append(p.dirs, name)
			case tmfile.CheckExt(name) == nil:
				p.files = append(p.files, name)
			}
		}
	}
	sort.Strings(p.dirs[1:])
	sort.Strings(p.files)
	p.dirSelected = 0
	p.fileSelected = 0
}

func (p *filePicker) move(delta int) {
	if p.focus == 0 {
		p.dirSelected = clampIndex(p.dirSelected+delta, len(p.dirs))
	} else {
		p.fileSelected = clampIndex(p.fileSelected+delta, len(p.files))
	}
}

func (p *filePicker) toggleFocus() {
	p.focus = 1 - p.focus
}

// enter descends into the selected directory or confirms the selected file.
// It reports whether the dialog is finished.
func (p *filePicker) enter() bool {
	if p.focus == 0 {
		if len(p.dirs) == 0 {
			return false
		}
		p.dir = filepath.Clean(filepath.Join(p.dir, p.dirs[p.dirSelected]))
		p.refresh()
		return false
	}
	if len(p.files) == 0 {
		return false
	}
	p.choice <- filepath.Join(p.dir, p.files[p.fileSelected])
	return true
}

func (p *filePicker) abort() {
	close(p.cancel)
}

// Pick waits for the dialog.
func (p *filePicker) Pick(ctx context.Context) (string, error) {
	select {
	case path := <-p.choice:
		return path, nil
	case <-p.cancel:
		return "", tmfile.ErrCancelled
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
