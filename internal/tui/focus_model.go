package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colinswan/sentinel/internal/db"
	"github.com/colinswan/sentinel/internal/events"
	"github.com/colinswan/sentinel/internal/models"
)

// phases of the focus loop
const (
	phaseTask = iota // entering what this interval is about
	phaseFocus
	phaseCountdown // pre-lock warning
	phaseLocked
	phaseBreak
)

// heartbeatInterval matches what the backend expects from a running
// primary app.
const heartbeatInterval = 30 * time.Second

// FocusModel drives the primary device's focus timer and lock screen.
type FocusModel struct {
	width  int
	height int

	account *models.Account
	device  *models.Device
	session *models.Session

	phase         int
	focusDuration time.Duration
	countdownLeft int
	lockMessage   string
	pairingHint   string
	notice        string
	err           error

	taskInput textinput.Model
	bar       progress.Model

	// events is the in-process bus; remote is the backend's SSE stream.
	// The unlock normally arrives over remote, since the phone talks to
	// the `sentinel serve` process, not this one.
	events       <-chan events.Event
	cancel       func()
	eventsURL    string
	remote       <-chan events.Event
	remoteCancel context.CancelFunc

	quitting bool
}

type timerTickMsg struct{}

type heartbeatTickMsg struct{}

type stateEventMsg events.Event

type remoteEventMsg events.Event

type remoteConnectedMsg struct {
	ch     <-chan events.Event
	cancel context.CancelFunc
}

// NewFocusModel builds the model for an account/primary device pair.
// eventsURL is the base URL of the backend whose SSE stream to follow;
// empty means rely on the shared database alone.
func NewFocusModel(account *models.Account, device *models.Device, eventsURL string) FocusModel {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 120
	ti.Width = 48
	ti.Focus()

	ch, cancel := events.Default.Subscribe()

	return FocusModel{
		account:       account,
		device:        device,
		phase:         phaseTask,
		focusDuration: time.Duration(account.FocusMinutes) * time.Minute,
		taskInput:     ti,
		bar:           progress.New(progress.WithDefaultGradient()),
		events:        ch,
		cancel:        cancel,
		eventsURL:     eventsURL,
	}
}

// Init starts the tickers and the event-stream waits.
func (m FocusModel) Init() tea.Cmd {
	return tea.Batch(
		tickTimer(),
		tickHeartbeat(),
		m.waitForEvent(),
		m.connectRemote(),
	)
}

// connectRemote attaches to the backend's SSE stream. When the backend is
// not running the lock screen still recovers by watching the database.
func (m FocusModel) connectRemote() tea.Cmd {
	if m.eventsURL == "" {
		return nil
	}
	url, accountID := m.eventsURL, m.account.ID
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := events.Watch(ctx, url, accountID)
		if err != nil {
			cancel()
			return nil
		}
		return remoteConnectedMsg{ch: ch, cancel: cancel}
	}
}

// teardown releases both event subscriptions.
func (m FocusModel) teardown() {
	m.cancel()
	if m.remoteCancel != nil {
		m.remoteCancel()
	}
}

func tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func tickHeartbeat() tea.Cmd {
	return tea.Tick(heartbeatInterval, func(t time.Time) tea.Msg {
		return heartbeatTickMsg{}
	})
}

// waitForEvent blocks on the in-process stream and resubmits itself after
// each delivery.
func (m FocusModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, open := <-m.events
		if !open {
			return nil
		}
		return stateEventMsg(event)
	}
}

// waitForRemote blocks on the backend's SSE stream.
func (m FocusModel) waitForRemote() tea.Cmd {
	return func() tea.Msg {
		event, open := <-m.remote
		if !open {
			return nil
		}
		return remoteEventMsg(event)
	}
}

// applyStateEvent reacts to a device-state change from either stream.
func (m *FocusModel) applyStateEvent(event events.Event) {
	if event.DeviceID == m.device.ID && event.Type == events.TypeDeviceUnlocked && m.phase == phaseLocked {
		m.phase = phaseBreak
		m.session = nil
	}
}

// Update handles messages
func (m FocusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return m.handleTick()

	case heartbeatTickMsg:
		if !m.quitting {
			// Best effort; a failed heartbeat never interrupts the timer.
			_ = db.Heartbeat(m.device.ID)
			return m, tickHeartbeat()
		}
		return m, nil

	case stateEventMsg:
		m.applyStateEvent(events.Event(msg))
		return m, m.waitForEvent()

	case remoteConnectedMsg:
		m.remote = msg.ch
		m.remoteCancel = msg.cancel
		return m, m.waitForRemote()

	case remoteEventMsg:
		m.applyStateEvent(events.Event(msg))
		return m, m.waitForRemote()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width-10, 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseTask {
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m FocusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The lock screen swallows everything: the key lives on the
	// secondary device, not this keyboard.
	if m.phase == phaseLocked {
		return m, nil
	}

	switch m.phase {
	case phaseTask:
		switch msg.String() {
		case "enter":
			return m.startSession()
		case "ctrl+c", "esc":
			m.quitting = true
			m.teardown()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		return m, cmd

	case phaseFocus, phaseCountdown:
		switch msg.String() {
		case "s", "S":
			// Stop early without ever locking.
			if m.session != nil {
				_, err := db.EndSession(m.session.ID, false, "")
				if err != nil {
					m.err = err
				}
				m.session = nil
			}
			m.quitting = true
			m.teardown()
			return m, tea.Quit
		case "m", "M":
			account, err := db.SetMeetingMode(m.account.ID, 30*time.Minute)
			if err != nil {
				m.err = err
			} else {
				m.account = account
				m.notice = "Meeting mode on for 30 minutes"
			}
			return m, nil
		}

	case phaseBreak:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter":
			m.quitting = true
			m.teardown()
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m FocusModel) startSession() (tea.Model, tea.Cmd) {
	description := strings.TrimSpace(m.taskInput.Value())

	var projectID, taskID *uint
	if project, err := db.GetActiveProject(m.account.ID); err == nil {
		projectID = &project.ID
	}

	session, err := db.StartSession(m.account.ID, m.device.ID, description, projectID, taskID)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.session = session
	m.phase = phaseFocus
	return m, nil
}

func (m FocusModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch m.phase {
	case phaseFocus:
		if m.session != nil && time.Since(m.session.StartedAt) >= m.focusDuration {
			m.phase = phaseCountdown
			m.countdownLeft = m.account.PreLockCountdownSeconds
		}

	case phaseCountdown:
		m.countdownLeft--
		if m.countdownLeft <= 0 {
			return m.tryLock()
		}

	case phaseLocked:
		// The unlock happens in another process, the backend the phone
		// talks to. The SSE stream is the fast path; the shared database
		// is the truth, so check it every tick as well.
		if device, err := db.GetDevice(m.device.ID); err == nil && device.Status == models.StatusUnlocked {
			m.phase = phaseBreak
			m.session = nil
		}
	}

	return m, tickTimer()
}

// tryLock attempts the locked transition. A meeting-mode refusal silently
// restarts the focus interval.
func (m FocusModel) tryLock() (tea.Model, tea.Cmd) {
	result, err := db.Lock(m.device.ID, "", false)
	if err != nil {
		m.err = err
		m.quitting = true
		m.teardown()
		return m, tea.Quit
	}

	if !result.Locked {
		m.phase = phaseFocus
		if m.session != nil {
			m.session.StartedAt = time.Now()
		}
		if result.MeetingModeUntil != nil {
			m.notice = fmt.Sprintf("In a meeting until %s; timer restarted",
				result.MeetingModeUntil.Format("15:04"))
		}
		return m, tickTimer()
	}

	m.phase = phaseLocked
	m.lockMessage = result.Message
	if code, expiry, err := db.GetPairingCode(m.device.ID); err == nil {
		m.pairingHint = fmt.Sprintf("Pairing code %s (until %s)", code, expiry.Format("15:04"))
	}
	return m, tickTimer()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
