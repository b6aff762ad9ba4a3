package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/hostlib/callback"
	"github.com/wippyai/hostlib/host"
	"github.com/wippyai/hostlib/resource"
	"github.com/wippyai/hostlib/status"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func runInteractive() error {
	m := newInspectorModel()
	_, err := tea.NewProgram(m).Run()
	return err
}

type opInfo struct {
	name   string
	params []string
	run    func(m *inspectorModel, args []string) (string, error)
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type inspectorModel struct {
	lib      *host.Library
	ops      []opInfo
	events   []string
	inputs   []textinput.Model
	result   string
	err      error
	selected int
	focusIdx int
	state    modelState
}

func newInspectorModel() *inspectorModel {
	m := &inspectorModel{
		lib: host.New(),
	}
	m.ops = []opInfo{
		{name: "add", params: []string{"a", "b"}, run: opAdd},
		{name: "divide", params: []string{"a", "b"}, run: opDivide},
		{name: "error-message", params: []string{"code"}, run: opErrorMessage},
		{name: "register-callback", params: []string{"tag"}, run: opRegisterCallback},
		{name: "unregister-callback", params: []string{"handle"}, run: opUnregisterCallback},
		{name: "trigger-callbacks", params: []string{"value"}, run: opTriggerCallbacks},
		{name: "db-open", params: []string{"path"}, run: opDbOpen},
		{name: "db-execute", params: []string{"handle", "command"}, run: opDbExecute},
		{name: "db-last-error", params: []string{"handle"}, run: opDbLastError},
		{name: "db-close", params: []string{"handle"}, run: opDbClose},
	}
	return m
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateSelectOp || msg.String() == "ctrl+c" {
				m.lib.Close()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				m.state = stateInputArgs

			case stateInputArgs:
				m.runSelected()

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state != stateSelectOp {
				m.state = stateSelectOp
				m.inputs = nil
				m.result = ""
				m.err = nil
			}
		}
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *inspectorModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Prompt = p + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *inspectorModel) runSelected() {
	op := m.ops[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	m.result, m.err = op.run(m, args)
	m.inputs = nil
	m.state = stateShowResult
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hostlib inspector"))
	b.WriteString(fmt.Sprintf("  callbacks: %d  connections: %d\n\n",
		m.lib.CallbackCount(), m.lib.ConnCount()))

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			line := fmt.Sprintf("%s(%s)", op.name, strings.Join(op.params, ", "))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + opStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Running %s\n\n", opStyle.Render(m.ops[m.selected].name)))
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc back"))
	}

	if len(m.events) > 0 {
		b.WriteString("\n\nRecent callback events:\n")
		start := 0
		if len(m.events) > 5 {
			start = len(m.events) - 5
		}
		for _, e := range m.events[start:] {
			b.WriteString(helpStyle.Render("  " + e))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func parseI32(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not a 32-bit integer: %q", s)
	}
	return int32(v), nil
}

func parseHandle(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not a handle: %q", s)
	}
	return uint32(v), nil
}

func opAdd(m *inspectorModel, args []string) (string, error) {
	a, err := parseI32(args[0])
	if err != nil {
		return "", err
	}
	b, err := parseI32(args[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("= %d", m.lib.Add(a, b)), nil
}

func opDivide(m *inspectorModel, args []string) (string, error) {
	a, err := parseI32(args[0])
	if err != nil {
		return "", err
	}
	b, err := parseI32(args[1])
	if err != nil {
		return "", err
	}
	q, err := m.lib.Divide(a, b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("= %d", q), nil
}

func opErrorMessage(m *inspectorModel, args []string) (string, error) {
	code, err := parseI32(args[0])
	if err != nil {
		return "", err
	}
	return m.lib.ErrorMessage(code), nil
}

func opRegisterCallback(m *inspectorModel, args []string) (string, error) {
	tag := args[0]
	h, err := m.lib.RegisterCallback(func(ctx any, v int32) {
		m.events = append(m.events, fmt.Sprintf("%v fired with %d", ctx, v))
	}, tag)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("handle %d", h), nil
}

func opUnregisterCallback(m *inspectorModel, args []string) (string, error) {
	h, err := parseHandle(args[0])
	if err != nil {
		return "", err
	}
	m.lib.UnregisterCallback(callback.Handle(h))
	return "ok", nil
}

func opTriggerCallbacks(m *inspectorModel, args []string) (string, error) {
	v, err := parseI32(args[0])
	if err != nil {
		return "", err
	}
	m.lib.TriggerCallbacks(v)
	return fmt.Sprintf("triggered %d callbacks", m.lib.CallbackCount()), nil
}

func opDbOpen(m *inspectorModel, args []string) (string, error) {
	h, err := m.lib.DbOpen(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("handle %d", h), nil
}

func opDbExecute(m *inspectorModel, args []string) (string, error) {
	h, err := parseHandle(args[0])
	if err != nil {
		return "", err
	}
	code := m.lib.DbExecute(resource.Handle(h), args[1])
	return fmt.Sprintf("%d (%s)", code, status.Message(code)), nil
}

func opDbLastError(m *inspectorModel, args []string) (string, error) {
	h, err := parseHandle(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q", m.lib.DbLastError(resource.Handle(h))), nil
}

func opDbClose(m *inspectorModel, args []string) (string, error) {
	h, err := parseHandle(args[0])
	if err != nil {
		return "", err
	}
	if err := m.lib.DbClose(resource.Handle(h)); err != nil {
		return "", err
	}
	return "closed", nil
}
