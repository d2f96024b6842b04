package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbetti/go-ocho/ocho/input/action"
	"github.com/mbetti/go-ocho/ocho/input/event"
	"github.com/mbetti/go-ocho/ocho/video"
)

// HeadlessBackend implements the Backend interface for automated testing and
// batch processing. It renders nothing, optionally dumping text snapshots of
// the framebuffer, and quits after a fixed number of frames.
type HeadlessBackend struct {
	config         Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func NewHeadlessBackend(maxFrames int, snapshotConfig SnapshotConfig) *HeadlessBackend {
	return &HeadlessBackend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *HeadlessBackend) Init(config Config) error {
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts frames and handles snapshots; it produces no input events
// except the quit signal once the frame budget is spent.
func (h *HeadlessBackend) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%60 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}
		slog.Info("Headless execution completed", "frames", h.maxFrames)
		return []InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
	}

	return nil, nil
}

func (h *HeadlessBackend) Cleanup() error {
	return nil
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "ocho-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

// saveSnapshot writes the current frame as a text file, one rune per pixel.
func (h *HeadlessBackend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.txt", h.snapshotConfig.ROMName, h.frameCount)
	path := filepath.Join(h.snapshotConfig.Directory, name)

	if err := WriteFrameText(frame, path); err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "path", path, "error", err)
		return
	}
	slog.Info("Saved frame snapshot", "frame", h.frameCount, "path", path)
}

// WriteFrameText dumps a frame as text: '█' for lit pixels, space for dark.
func WriteFrameText(frame *video.FrameBuffer, path string) error {
	var b strings.Builder
	b.WriteString("# 64x32 frame snapshot\n")

	pixels := frame.ToSlice()
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			if pixels[y*video.FramebufferWidth+x] {
				b.WriteRune('█')
			} else {
				b.WriteRune(' ')
			}
		}
		b.WriteRune('\n')
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
