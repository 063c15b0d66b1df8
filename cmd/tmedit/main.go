// Command tmedit is a terminal editor for Turing machine state diagrams.
// The rule text sits in the left pane and its diagram, laid out by the
// force model, on the canvas to the right.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/turing-graph/internal/config"
	"github.com/ha1tch/turing-graph/internal/logging"
	"github.com/ha1tch/turing-graph/pkg/editor"
	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/render"
	"github.com/ha1tch/turing-graph/pkg/tmfile"
)

// Mode represents what keyboard input goes to.
type Mode int

const (
	ModeCanvas     Mode = iota // selection edits and panning
	ModeCode                   // the rule text pane
	ModeInput                  // a one-line prompt
	ModeFilePicker             // the open dialog
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
)

const flashDuration = 500 // milliseconds

// prompt is an open one-line input.
type prompt struct {
	label  string
	buffer string
	done   func(string)
}

// Editor is the terminal front end of an editor.Session.
type Editor struct {
	screen  tcell.Screen
	session *editor.Session
	config  config.Config
	cfgPath string
	logger  *slog.Logger

	mode   Mode
	code   *codeBuffer
	synced string // session code last copied to or from the pane
	input  *prompt
	picker *filePicker

	canvas   view
	grabView *geometry.Vec // viewport centre held still while dragging
	codeW    int

	leftDown   bool
	downCanvas bool

	message           string
	messageType       MessageType
	messageFlashStart int64
	lastStatus        string

	animating atomic.Bool
}

var rootCmd = &cobra.Command{
	Use:          "tmedit [file.tm]",
	Short:        "Edit Turing machine state diagrams in the terminal",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	rootCmd.Flags().String("config", "", "config file (default ~/"+config.FileName+")")
	rootCmd.Flags().String("log", "", "write logs to this file")
	rootCmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().String("word", "", "input word stored on the machine")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, args []string) error {
	logger := logging.NewNop()
	if path, _ := cmd.Flags().GetString("log"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		level, _ := cmd.Flags().GetString("log-level")
		logger = logging.NewWriter(f, logging.ParseLevel(level))
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath, _ = config.Path()
	}
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("config %s: %w", cfgPath, err)
		}
	}
	if word, _ := cmd.Flags().GetString("word"); word != "" {
		cfg.Editor.Word = word
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	ed := &Editor{
		screen:  screen,
		config:  cfg,
		cfgPath: cfgPath,
		logger:  logger,
		code:    newCodeBuffer(""),
		codeW:   44,
	}
	ed.session, err = editor.New(cfg,
		editor.WithLogger(logger),
		editor.WithMetrics(render.CellMetrics{CellWidth: cellWidth, CellHeight: cellHeight}),
		editor.WithNotify(func() { screen.PostEvent(tcell.NewEventInterrupt(nil)) }),
	)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := ed.loadFile(args[0]); err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.Clear()

	logger.Info("editor started", "file", ed.session.Path)
	ed.run()
	screen.Fini()

	return ed.saveConfig()
}

// loadFile reads and compiles a file given on the command line.
func (ed *Editor) loadFile(path string) error {
	text, err := tmfile.ReadFile(path)
	if err != nil {
		return err
	}
	s := ed.session
	s.Code = text
	s.Path = path
	ed.pullCode()
	ed.report(s.Compile())
	return nil
}

func (ed *Editor) saveConfig() error {
	if ed.cfgPath == "" {
		return nil
	}
	return config.Save(ed.cfgPath, ed.config)
}

func (ed *Editor) run() {
	done := make(chan struct{})
	defer close(done)
	go ed.tick(done, 33*time.Millisecond)

	for {
		ed.session.Frame()
		ed.syncFromSession()
		ed.draw()
		ed.screen.Show()
		ed.animating.Store(ed.session.NeedsRedraw() || ed.flashing())

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Next frame
		}
	}
}

// tick redraws without input while the layout moves or a message flashes.
// It returns once done is closed.
func (ed *Editor) tick(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if ed.animating.Load() {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}
}

// syncFromSession copies code the session replaced (a finished file load)
// into the pane and surfaces new status text.
func (ed *Editor) syncFromSession() {
	s := ed.session
	if s.Code != ed.synced {
		ed.pullCode()
		if s.Path != "" {
			ed.config.Editor.LastDir = filepath.Dir(s.Path)
		}
	}
	if st := s.Status(); st != ed.lastStatus {
		ed.lastStatus = st
		ed.showMessage(st, MsgInfo)
	}
}

func (ed *Editor) pullCode() {
	ed.code.SetText(ed.session.Code)
	ed.synced = ed.session.Code
}

func (ed *Editor) pushCode() {
	ed.session.Code = ed.code.Text()
	ed.synced = ed.session.Code
}

// report shows the outcome of a session action.
func (ed *Editor) report(err error) {
	ed.lastStatus = ed.session.Status()
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if ed.lastStatus != "" {
		ed.showMessage(ed.lastStatus, MsgSuccess)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = 0
	if shouldFlashForType(msgType) {
		ed.messageFlashStart = time.Now().UnixMilli()
	}
}

func (ed *Editor) flashing() bool {
	if ed.messageFlashStart == 0 {
		return false
	}
	elapsed := time.Now().UnixMilli() - ed.messageFlashStart
	return elapsed >= 0 && elapsed < flashDuration
}

func shouldFlashForType(msgType MessageType) bool {
	return msgType == MsgError || msgType == MsgSuccess
}

// shouldBeInverted gives the flash pattern: normal, inverted, normal,
// inverted, each 125ms, then normal.
func shouldBeInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlR:
		ed.compile()
		return false
	case tcell.KeyCtrlG:
		ed.report(ed.session.LoadGraph())
		ed.pullCode()
		return false
	case tcell.KeyCtrlO:
		ed.openFilePicker()
		return false
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyCtrlE:
		ed.export()
		return false
	case tcell.KeyCtrlW:
		ed.editWord()
		return false
	}

	switch ed.mode {
	case ModeCode:
		ed.handleCodeKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeFilePicker:
		ed.handleFilePickerKey(ev)
	default:
		ed.handleCanvasKey(ev)
	}
	return false
}

func (ed *Editor) compile() {
	if ed.mode == ModeCode {
		ed.pushCode()
	}
	ed.report(ed.session.Compile())
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) {
	s := ed.session
	editing := s.Controller().Edit() != nil
	switch ev.Key() {
	case tcell.KeyTab:
		ed.mode = ModeCode
	case tcell.KeyEnter:
		ed.report(s.Enter())
	case tcell.KeyEscape:
		s.Escape()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.Backspace()
	case tcell.KeyUp:
		ed.panViewport(0, -1)
	case tcell.KeyDown:
		ed.panViewport(0, 1)
	case tcell.KeyLeft:
		ed.panViewport(-1, 0)
	case tcell.KeyRight:
		ed.panViewport(1, 0)
	case tcell.KeyHome:
		ed.canvas.pan = geometry.Vec{}
	case tcell.KeyRune:
		if editing {
			s.Type(ev.Rune())
		}
	}
}

// panViewport shifts the view by a quarter screen.
func (ed *Editor) panViewport(dx, dy int) {
	step := geometry.Vec{
		X: float64(dx*max(ed.canvas.w/4, 1)) * cellWidth,
		Y: float64(dy*max(ed.canvas.h/4, 1)) * cellHeight,
	}
	ed.canvas.pan = ed.canvas.pan.Add(step)
}

func (ed *Editor) handleCodeKey(ev *tcell.EventKey) {
	b := ed.code
	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyEscape:
		ed.pushCode()
		ed.mode = ModeCanvas
		return
	case tcell.KeyEnter:
		b.Newline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b.Backspace()
	case tcell.KeyUp:
		b.Move(-1, 0)
	case tcell.KeyDown:
		b.Move(1, 0)
	case tcell.KeyLeft:
		b.Move(0, -1)
	case tcell.KeyRight:
		b.Move(0, 1)
	case tcell.KeyRune:
		b.Insert(ev.Rune())
	default:
		return
	}
	ed.pushCode()
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	p := ed.input
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.input = nil
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.input = nil
		ed.mode = ModeCanvas
		p.done(p.buffer)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if rs := []rune(p.buffer); len(rs) > 0 {
			p.buffer = string(rs[:len(rs)-1])
		}
	case tcell.KeyRune:
		p.buffer += string(ev.Rune())
	}
}

func (ed *Editor) ask(label, initial string, done func(string)) {
	ed.input = &prompt{label: label, buffer: initial, done: done}
	ed.mode = ModeInput
}

func (ed *Editor) openFilePicker() {
	p := newFilePicker(ed.config.Editor.LastDir)
	if err := ed.session.Open(context.Background(), p); err != nil {
		ed.report(err)
		return
	}
	ed.picker = p
	ed.mode = ModeFilePicker
}

func (ed *Editor) handleFilePickerKey(ev *tcell.EventKey) {
	p := ed.picker
	switch ev.Key() {
	case tcell.KeyEscape:
		p.abort()
		ed.closeFilePicker()
	case tcell.KeyUp:
		p.move(-1)
	case tcell.KeyDown:
		p.move(1)
	case tcell.KeyTab, tcell.KeyLeft, tcell.KeyRight:
		p.toggleFocus()
	case tcell.KeyEnter:
		if p.enter() {
			ed.config.Editor.LastDir = p.dir
			ed.closeFilePicker()
		}
	}
}

func (ed *Editor) closeFilePicker() {
	ed.picker = nil
	ed.mode = ModeCanvas
}

func (ed *Editor) save() {
	s := ed.session
	if ed.mode == ModeCode {
		ed.pushCode()
	}
	if s.Path != "" {
		ed.report(s.Save(""))
		return
	}
	ed.ask("Save as: ", "", func(name string) {
		if strings.TrimSpace(name) == "" {
			return
		}
		ed.report(s.Save(name))
	})
}

func (ed *Editor) export() {
	format := ed.config.Editor.ExportFormat
	base := "machine"
	if p := ed.session.Path; p != "" {
		base = strings.TrimSuffix(p, filepath.Ext(p))
	}
	ed.ask("Export to: ", base+"."+format, func(name string) {
		ed.report(ed.exportTo(name, format))
	})
}

// exportTo writes the diagram; the file extension picks the format when it
// names one.
func (ed *Editor) exportTo(path, fallback string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	switch format {
	case "svg", "png", "dot":
	default:
		format = fallback
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := ed.session.Export(f, format, title); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ed.showMessage("exported "+path, MsgSuccess)
	return nil
}

func (ed *Editor) editWord() {
	ed.ask("Word: ", ed.session.Word, func(word string) {
		ed.session.Word = word
		ed.config.Editor.Word = word
		ed.compile()
	})
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !ed.leftDown:
		ed.leftDown = true
		ed.downCanvas = ed.canvas.contains(x, y) && (ed.mode == ModeCanvas || ed.mode == ModeCode)
		if !ed.downCanvas {
			if x < ed.codeW && ed.mode == ModeCanvas {
				ed.mode = ModeCode
			}
			return
		}
		if ed.mode == ModeCode {
			ed.pushCode()
			ed.mode = ModeCanvas
		}
		c := ed.canvas.center
		ed.grabView = &c
		ed.session.PointerDown(ed.canvas.toWorld(x, y))

	case pressed && ed.leftDown:
		if ed.downCanvas {
			ed.session.PointerMove(ed.canvas.toWorld(x, y))
		}

	case !pressed && ed.leftDown:
		ed.leftDown = false
		if ed.downCanvas {
			err := ed.session.PointerUp(ed.canvas.toWorld(x, y))
			if err != nil {
				ed.report(err)
			}
		}
		ed.downCanvas = false
		ed.grabView = nil
	}
}
