package main

import (
	"fmt"
	"os"
	"time"

	"github.com/AndrewLester/sntpal/internal/system"
	"github.com/AndrewLester/sntpal/internal/ui"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type queryOptions struct {
	samples int
	step    bool
	slew    bool
	compare bool
	plain   bool
}

func handleQueryCommand(client *sntp.Client, options queryOptions) {
	var result *sntp.SyncResult

	if options.plain {
		var err error
		result, err = sample(client, options.samples, samplePause, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(formatResult(result))
	} else {
		m := newQueryCommandModel(client, options.samples)
		final, err := ui.Run(m)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		result = final.(queryCommandModel).result
	}

	// Interrupted before any sample completed.
	if result == nil {
		return
	}

	if err := afterQuery(client, result, options); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func afterQuery(client *sntp.Client, result *sntp.SyncResult, options queryOptions) error {
	if serverTime, err := client.FormattedServerTime(); err == nil {
		fmt.Println("server time:", serverTime)
	}

	if options.compare {
		timeout := time.Duration(client.Timeout()) * time.Second
		if timeout == 0 {
			timeout = time.Duration(sntp.DefaultTimeout) * time.Second
		}
		reference, err := referenceOffset(client.Server(), timeout)
		if err != nil {
			return fmt.Errorf("cross-check failed: %w", err)
		}
		fmt.Println(formatComparison(result.Offset, reference))
	}

	switch {
	case options.step:
		if err := system.StepTime(result.Offset); err != nil {
			return fmt.Errorf("step clock: %w", err)
		}
		fmt.Printf("stepped clock by %+.6f s\n", result.Offset)
	case options.slew:
		if err := system.AdjustTime(result.Offset); err != nil {
			return fmt.Errorf("slew clock: %w", err)
		}
		fmt.Printf("slewing clock by %+.6f s\n", result.Offset)
	}
	return nil
}

const (
	padding  = 10
	maxWidth = 80
)

type queryCommandModel struct {
	progress progress.Model
	client   *sntp.Client
	samples  int
	done     int
	sampled  chan struct{}

	result *sntp.SyncResult
	err    error
}

type queryResultMessage *sntp.SyncResult
type queryErrorMessage struct{ err error }
type progressUpdateMessage struct{}

func newQueryCommandModel(client *sntp.Client, samples int) queryCommandModel {
	if samples < 1 {
		samples = 1
	}
	return queryCommandModel{
		progress: progress.New(progress.WithScaledGradient("#68b1b1", "#6ea4ff")),
		client:   client,
		samples:  samples,
		sampled:  make(chan struct{}, samples),
	}
}

func sampleCommand(m queryCommandModel) tea.Cmd {
	return func() tea.Msg {
		result, err := sample(m.client, m.samples, samplePause, func() {
			m.sampled <- struct{}{}
		})
		if err != nil {
			return queryErrorMessage{err}
		}
		return queryResultMessage(result)
	}
}

func sampleListenCommand(m queryCommandModel) tea.Cmd {
	return func() tea.Msg {
		<-m.sampled
		return progressUpdateMessage{}
	}
}

func (m queryCommandModel) Init() tea.Cmd {
	return tea.Batch(sampleCommand(m), sampleListenCommand(m))
}

func (m queryCommandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil
	case progressUpdateMessage:
		m.done++
		if m.done >= m.samples {
			return m, nil
		}
		return m, sampleListenCommand(m)
	case queryResultMessage:
		m.result = msg
		return m, tea.Quit
	case queryErrorMessage:
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m queryCommandModel) View() (s string) {
	if m.err != nil {
		return
	}

	if m.result == nil {
		s += ui.Title("SNTPal - Query "+m.client.Server()) + "\n\n"
		s += m.progress.ViewAs(float64(m.done)/float64(m.samples)) + "\n\n"
		s += ui.Help("q: exit") + "\n"
	} else {
		s += formatResult(m.result) + "\n"
	}
	return
}

func (m queryCommandModel) GetError() error {
	return m.err
}
