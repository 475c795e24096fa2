package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/AndrewLester/sntpal/internal/rpc"
	"github.com/AndrewLester/sntpal/internal/ui"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

func handleStatusUI(socket string) {
	m := statusUIModel{socket: socket, table: setupTable()}

	if _, err := ui.Run(m); err != nil {
		logrus.Fatalf("could not run program: %v", err)
	}
}

const fetchStatusPeriod = time.Second

type statusUIModel struct {
	socket string
	client *rpc.Client

	table            table.Model
	status           rpc.Status
	daemonKillStatus string
	err              error
}

type dialSocketMessage *rpc.Client
type fetchStatusMessage rpc.Status
type errorMessage struct{ err error }
type tickMsg time.Time

func dialSocketCommand(m statusUIModel) tea.Cmd {
	return func() tea.Msg {
		client, err := rpc.Dial(m.socket)
		if err != nil {
			return errorMessage{fmt.Errorf("error connecting to sntpal daemon: %w", err)}
		}
		return dialSocketMessage(client)
	}
}

func fetchStatusCommand(m statusUIModel) tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.FetchStatus()
		if err != nil {
			return errorMessage{fmt.Errorf("error getting status from daemon: %w", err)}
		}
		return fetchStatusMessage(status)
	}
}

func stopDaemonCommand() tea.Cmd {
	return func() tea.Msg {
		if err := killDaemon(); err != nil {
			return errorMessage{err}
		}
		return nil
	}
}

func tickCommand(duration time.Duration) tea.Cmd {
	return tea.Tick(duration, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m statusUIModel) Init() tea.Cmd {
	return dialSocketCommand(m)
}

func (m statusUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.table.Focused() {
				m.table.Blur()
			} else {
				m.table.Focus()
			}
		case "stop", "s":
			m.daemonKillStatus = "Stopping " + daemonName
			return m, tea.Sequence(stopDaemonCommand(), tea.Quit)
		case "ctrl+c", "q":
			if m.client != nil {
				m.client.Close()
			}
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case dialSocketMessage:
		m.client = msg
		return m, tickCommand(0)
	case fetchStatusMessage:
		m.status = rpc.Status(msg)
		m.table.SetRows([]table.Row{statusRow(m.status)})
		return m, nil
	case errorMessage:
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		return m, tea.Batch(tickCommand(fetchStatusPeriod), fetchStatusCommand(m))
	default:
		return m, nil
	}
}

func (m statusUIModel) View() (s string) {
	if m.err != nil {
		return
	}

	s += ui.Title("SNTPal") + "\n"
	s += ui.TableBase(m.table.View()) + "\n"
	if m.status.LastError != "" {
		s += ui.Error("last sync failed: "+m.status.LastError) + "\n"
	} else if m.status.Synced {
		s += ui.Good("synchronized") + "\n"
	}
	s += "\n"
	if m.daemonKillStatus != "" {
		s += m.daemonKillStatus + "\n"
	} else {
		s += ui.Help("q: exit, s: stop daemon") + "\n"
	}
	return
}

func (m statusUIModel) GetError() error {
	return m.err
}

func statusRow(status rpc.Status) table.Row {
	if !status.Synced {
		return table.Row{status.Server, "unsynchronized", "", "", "", ""}
	}

	serverTime := unixSecondsToLocal(status.ServerTime).Format(time.DateTime)
	sinceSync := time.Duration(status.SinceLastSync * float64(time.Second)).Truncate(time.Second)
	return table.Row{
		status.Server,
		serverTime,
		strconv.FormatFloat(status.Offset*1e3, 'G', 5, 64),
		strconv.FormatFloat(status.ErrorBound*1e3, 'G', 5, 64),
		fmt.Sprintf("%d (%s)", status.Stratum, status.ReferenceID),
		fmt.Sprintf("%s ago", sinceSync),
	}
}

func unixSecondsToLocal(seconds float64) time.Time {
	return time.Unix(0, int64(seconds*float64(time.Second))).Local()
}

func setupTable() table.Model {
	columns := []table.Column{
		{Title: "Server", Width: 24},
		{Title: "Server Time", Width: 20},
		{Title: "Offset (ms)", Width: 12},
		{Title: "Error (ms)", Width: 12},
		{Title: "Stratum", Width: 14},
		{Title: "Last Sync", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(3),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.TableGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("218")).
		Background(lipgloss.Color("70")).
		Bold(false)
	t.SetStyles(s)

	return t
}
