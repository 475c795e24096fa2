package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModel is a model that can finish with an error of its own.
type ErrorModel interface {
	tea.Model
	GetError() error
}

// Run runs the program and surfaces the final model's error. Bubble Tea's own
// errors take precedence.
func Run(model ErrorModel, options ...tea.ProgramOption) (tea.Model, error) {
	resultModel, teaErr := tea.NewProgram(model, options...).Run()
	if teaErr != nil {
		return resultModel, teaErr
	}

	if errorModel, ok := resultModel.(ErrorModel); ok {
		return resultModel, errorModel.GetError()
	}
	return resultModel, nil
}
