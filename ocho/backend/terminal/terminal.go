package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mbetti/go-ocho/ocho/backend"
	"github.com/mbetti/go-ocho/ocho/disasm"
	"github.com/mbetti/go-ocho/ocho/input"
	"github.com/mbetti/go-ocho/ocho/input/action"
	"github.com/mbetti/go-ocho/ocho/input/event"
	"github.com/mbetti/go-ocho/ocho/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// two pixels per terminal cell via half blocks
	gameAreaWidth  = width
	gameAreaHeight = height / 2

	registerHeight = 10
	disasmHeight   = 8
	minTermWidth   = 80
	minTermHeight  = 20
)

// keyTimeout expires held keys: terminals report key repeats but no key-up,
// so a key counts as released once it stops repeating.
const keyTimeout = 150 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *logBuffer
	config     backend.Config
	eventQueue []backend.InputEvent // UI events collected between frames

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	debugProvider backend.DebugDataProvider

	currentFrame *video.FrameBuffer // last rendered frame, for snapshots
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.screen = screen
	t.running = true

	// Route logs into the ring buffer so they don't tear up the screen.
	t.logBuffer = newLogBuffer(100)
	slog.SetDefault(slog.New(newLogHandler(t.logBuffer, slog.LevelDebug)))

	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	// Expire held keys and turn the state map into press/hold/release events.
	currentlyActive := make(map[action.Action]bool)
	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true
			if !t.activeKeys[act] {
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.running = false
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
}

// tcellKeyNameMap converts tcell special keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF10:    "F10",
	tcell.KeyF12:    "F12",
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC {
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		return
	}

	var act action.Action
	var ok bool
	if name, special := tcellKeyNameMap[ev.Key()]; special {
		act, ok = input.GetDefaultMapping(name)
	} else if ev.Key() == tcell.KeyRune {
		act, ok = input.GetDefaultMapping(string(ev.Rune()))
		if !ok && ev.Rune() == ' ' {
			act, ok = input.GetDefaultMapping("Space")
		}
	}
	if !ok {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	// The debug panel is a terminal feature, so the toggle is handled here
	// instead of being forwarded to the machine.
	if act == action.EmulatorDebugToggle {
		t.config.ShowDebug = !t.config.ShowDebug
		return
	}

	if action.GetInfo(act).Category == action.CategoryGameInput {
		t.keyStates[act] = now
	} else {
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	t.screen.Clear()

	dividerX := gameAreaWidth + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX
	if rightPanelWidth < 0 {
		rightPanelWidth = 0
	}

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	if t.config.ShowDebug && t.debugProvider != nil {
		t.drawRegisters(rightPanelX, 1, rightPanelWidth, termHeight)
		t.drawDisassembly(rightPanelX, registerHeight+2, rightPanelWidth, termHeight)
	}

	logsY := gameAreaHeight + 2
	t.drawLogs(1, logsY, gameAreaWidth, termHeight)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight; y++ {
		if dividerX < termWidth {
			t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
		}
	}

	title := " " + t.config.Title + " "
	for i, ch := range title {
		if i+1 < dividerX {
			t.screen.SetContent(1+i, 0, ch, nil, titleStyle)
		}
	}

	helpText := " keys: 1234/qwer/asdf/zxcv | SPACE pause | F5 reset | F10 debug | F12 snapshot | ESC quit "
	for i, ch := range helpText {
		if i < termWidth {
			t.screen.SetContent(i, termHeight-1, ch, nil, borderStyle)
		}
	}
}

// drawScreen renders the 64x32 monochrome plane two pixels per cell using
// half-block characters.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := pixels[y*width+x]
			bottom := pixels[(y+1)*width+x]

			var ch rune
			switch {
			case top && bottom:
				ch = '█'
			case top:
				ch = '▀'
			case bottom:
				ch = '▄'
			default:
				ch = ' '
			}
			t.screen.SetContent(x, y/2+1, ch, nil, style)
		}
	}
}

func (t *Backend) drawRegisters(startX, startY, panelWidth, termHeight int) {
	snap := t.debugProvider.DebugSnapshot()
	if snap == nil || panelWidth <= 0 {
		return
	}

	lines := []string{
		fmt.Sprintf("Status: %s", snap.Status),
		fmt.Sprintf("V0-V3: %02X %02X %02X %02X", snap.V[0], snap.V[1], snap.V[2], snap.V[3]),
		fmt.Sprintf("V4-V7: %02X %02X %02X %02X", snap.V[4], snap.V[5], snap.V[6], snap.V[7]),
		fmt.Sprintf("V8-VB: %02X %02X %02X %02X", snap.V[8], snap.V[9], snap.V[10], snap.V[11]),
		fmt.Sprintf("VC-VF: %02X %02X %02X %02X", snap.V[12], snap.V[13], snap.V[14], snap.V[15]),
		fmt.Sprintf("I: 0x%03X  PC: 0x%03X  SP: %d", snap.I, snap.PC, snap.SP),
		fmt.Sprintf("DT: %3d  ST: %3d", snap.Delay, snap.Sound),
		fmt.Sprintf("Steps: %d  Frames: %d", snap.Steps, snap.Frames),
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		y := startY + i
		if y >= termHeight || y >= startY+registerHeight {
			break
		}
		t.drawText(startX, y, panelWidth, line, style)
	}
}

func (t *Backend) drawDisassembly(startX, startY, panelWidth, termHeight int) {
	snap := t.debugProvider.DebugSnapshot()
	if snap == nil || panelWidth <= 0 || len(snap.Code) == 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := disasm.Listing(snap.CodeStart, snap.Code, disasmHeight)
	for i, line := range lines {
		y := startY + i
		if y >= termHeight {
			break
		}
		text := fmt.Sprintf("  0x%03X: %s", line.Addr, line.Text)
		useStyle := style
		if line.Addr == snap.PC {
			text = "→" + text[1:]
			useStyle = currentStyle
		}
		t.drawText(startX, y, panelWidth, text, useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	available := termHeight - startY - 1
	if available <= 0 {
		return
	}

	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for i, entry := range t.logBuffer.recent(available) {
		style := infoStyle
		switch entry.level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		t.drawText(startX, startY+i, panelWidth, formatLogEntry(entry), style)
	}
}

// drawText truncates on rune boundaries: panel text contains multibyte
// runes (box drawing, the PC marker) that must not be split mid-sequence.
func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	runes := []rune(text)
	if maxWidth > 0 && len(runes) > maxWidth {
		runes = runes[:maxWidth]
	}
	for i, ch := range runes {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}
