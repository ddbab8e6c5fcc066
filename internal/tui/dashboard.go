package tui

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/pregnancy"
	"github.com/materna-cli/materna/internal/storage"
)

// defaultGlassML is the amount logged by the quick water key.
const defaultGlassML = 250

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	// Data
	status     *pregnancy.Status
	rules      []*model.ReminderRule
	countdowns []*model.Event
	waterTotal int
	waterGoal  int

	// Repositories
	reminderRepo *storage.ReminderRepo
	waterRepo    *storage.WaterRepo
	eventRepo    *storage.EventRepo
	profileRepo  *storage.ProfileRepo
	settingsRepo *storage.SettingsRepo

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
	maxReminders    int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	ReminderRepo    *storage.ReminderRepo
	WaterRepo       *storage.WaterRepo
	EventRepo       *storage.EventRepo
	ProfileRepo     *storage.ProfileRepo
	SettingsRepo    *storage.SettingsRepo
	RefreshInterval time.Duration
	MaxReminders    int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxReminders == 0 {
		config.MaxReminders = 5
	}

	return &DashboardModel{
		reminderRepo:    config.ReminderRepo,
		waterRepo:       config.WaterRepo,
		eventRepo:       config.EventRepo,
		profileRepo:     config.ProfileRepo,
		settingsRepo:    config.SettingsRepo,
		refreshInterval: config.RefreshInterval,
		maxReminders:    config.MaxReminders,
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "w":
		// Quick-log a glass of water
		if err := m.logWater(); err != nil {
			m.err = err
		} else {
			m.setMessage(fmt.Sprintf("Logged %dml", defaultGlassML), 2*time.Second)
			m.loadData()
		}
		return m, nil

	case "r":
		// Refresh data
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	// Header
	sections = append(sections, m.renderHeader())

	// Error message
	if m.err != nil {
		errBox := StyleError.Render(fmt.Sprintf("Error: %v", m.err))
		sections = append(sections, errBox)
	}

	// Status message
	if m.message != "" {
		msgBox := StyleWarning.Render(m.message)
		sections = append(sections, msgBox)
	}

	// Pregnancy status
	pregComp := NewPregnancyComponent(m.status, m.width)
	sections = append(sections, pregComp.View())

	// Hydration progress
	waterComp := NewWaterComponent(m.waterTotal, m.waterGoal, m.width)
	sections = append(sections, waterComp.View())

	// Upcoming reminders
	remComp := NewRemindersComponent(m.rules, m.width, m.maxReminders, time.Now())
	sections = append(sections, remComp.View())

	// Countdowns (if any exist)
	cdComp := NewCountdownComponent(m.countdowns, m.width, time.Now())
	if cdView := cdComp.View(); cdView != "" {
		sections = append(sections, cdView)
	}

	// Help bar
	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Materna Dashboard")
	now := time.Now().Format("Mon Jan 2, 15:04:05")
	timeStr := StyleSubtitle.Render(now)

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr) + "\n"
}

// loadData loads all data from repositories.
func (m *DashboardModel) loadData() {
	now := time.Now()

	// Pregnancy status
	m.status = nil
	if profile, err := m.profileRepo.Get(); err == nil && profile.Enabled && profile.HasLMP() {
		status := pregnancy.StatusAt(profile.LastPeriodDate, now)
		m.status = &status
	}

	// Hydration
	settings, err := m.settingsRepo.Get()
	if err != nil {
		m.err = err
		return
	}
	m.waterGoal = settings.WaterTargetML

	total, err := m.waterRepo.DayTotal(now)
	if err != nil {
		m.err = err
		return
	}
	m.waterTotal = total

	// Upcoming reminders, soonest first; rules without a schedule sort last
	rules, err := m.reminderRepo.ListPending()
	if err != nil {
		m.err = err
		return
	}
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i].NextFire, rules[j].NextFire
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})
	m.rules = rules

	// Countdowns are optional, don't fail on error
	countdowns, err := m.eventRepo.ListCountdowns()
	if err != nil {
		m.countdowns = nil
	} else {
		m.countdowns = countdowns
	}

	m.err = nil
}

// logWater records a default glass for today.
func (m *DashboardModel) logWater() error {
	return m.waterRepo.Create(model.NewWaterRecord(defaultGlassML, ""))
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	model := NewDashboardModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
