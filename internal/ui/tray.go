// Package ui provides the system tray menu. The tray mirrors the tracked
// job's progress channel and the media library so the agent has a visible
// pulse without opening the editor.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/cliplab/cliplab-agent/internal/progress"
)

type Tray struct {
	logger *slog.Logger

	statusItem *systray.MenuItem
	jobItem    *systray.MenuItem
	videosItem *systray.MenuItem

	mu sync.Mutex

	onReconnect func()
	onQuit      func()
}

type TrayConfig struct {
	Logger      *slog.Logger
	OnReconnect func()
	OnQuit      func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		logger:      cfg.Logger,
		onReconnect: cfg.OnReconnect,
		onQuit:      cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("ClipLab")
	systray.SetTooltip("ClipLab Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Connection state")
	t.statusItem.Disable()

	t.jobItem = systray.AddMenuItem("No active job", "Tracked export job")
	t.jobItem.Disable()

	t.videosItem = systray.AddMenuItem("Videos: 0", "Videos in the media library")
	t.videosItem.Disable()

	systray.AddSeparator()

	reconnectItem := systray.AddMenuItem("Reconnect", "Restart the job's progress channel")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit ClipLab Agent")

	go func() {
		for {
			select {
			case <-reconnectItem.ClickedCh:
				t.handleReconnect()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleReconnect() {
	t.logger.Info("reconnect requested from tray")
	if t.onReconnect != nil {
		t.onReconnect()
	}
}

// UpdateSnapshot refreshes the status and job lines from the tracker.
func (t *Tray) UpdateSnapshot(snap progress.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statusItem == nil {
		return
	}

	if snap.JobID == "" {
		t.statusItem.SetTitle("Status: Idle")
		t.jobItem.SetTitle("No active job")
		return
	}

	t.statusItem.SetTitle("Status: " + stateTitle(snap.State))
	t.jobItem.SetTitle(fmt.Sprintf("Job %s: %.0f%%", snap.JobID, snap.Progress))
}

func (t *Tray) UpdateVideosCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.videosItem == nil {
		return
	}
	t.videosItem.SetTitle(fmt.Sprintf("Videos: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}

func stateTitle(s progress.State) string {
	switch s {
	case progress.StateConnected:
		return "Connected"
	case progress.StateConnecting:
		return "Connecting"
	case progress.StateReconnecting:
		return "Reconnecting"
	case progress.StateClosed:
		return "Closed"
	default:
		return "Disconnected"
	}
}
