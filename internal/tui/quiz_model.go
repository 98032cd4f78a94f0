package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/refdata"
)

// QuizState represents the current state of the quiz TUI.
type QuizState int

const (
	// QuizStateAnswering indicates the user is answering questions.
	QuizStateAnswering QuizState = iota
	// QuizStateCalculating indicates the answers are being scored.
	QuizStateCalculating
	// QuizStateResults indicates results are on screen.
	QuizStateResults
	// QuizStateQuitting indicates the application is exiting.
	QuizStateQuitting
	// QuizStateError indicates scoring failed.
	QuizStateError
)

// Default dimensions for the quiz model.
const (
	quizDefaultWidth  = 80
	quizDefaultHeight = 24
	sliderCharLimit   = 10
)

// CalculateFunc scores a completed set of answers.
type CalculateFunc func(answers []footprint.RawAnswer) (*footprint.ResultSet, error)

// quizResultMsg is sent when scoring completes.
type quizResultMsg struct {
	result *footprint.ResultSet
	err    error
}

// QuizModel is the Bubble Tea model for the interactive quiz.
type QuizModel struct {
	questions []refdata.Question
	answers   []*footprint.RawAnswer
	current   int
	cursor    int

	input    textinput.Model
	inputErr string

	state  QuizState
	result *footprint.ResultSet
	err    error

	width  int
	height int

	calculate CalculateFunc
}

// NewQuizModel creates a quiz over questions, scored by calculate.
func NewQuizModel(questions []refdata.Question, calculate CalculateFunc) *QuizModel {
	input := textinput.New()
	input.CharLimit = sliderCharLimit
	input.Prompt = IconCursor + " "

	m := &QuizModel{
		questions: questions,
		answers:   make([]*footprint.RawAnswer, len(questions)),
		input:     input,
		state:     QuizStateAnswering,
		width:     quizDefaultWidth,
		height:    quizDefaultHeight,
		calculate: calculate,
	}
	m.enterQuestion()
	return m
}

// Init initializes the model.
func (m *QuizModel) Init() tea.Cmd {
	if len(m.questions) == 0 {
		return m.submit()
	}
	return textinput.Blink
}

// Update handles messages and updates the model state.
func (m *QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case quizResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = QuizStateError
			return m, nil
		}
		m.result = msg.result
		m.state = QuizStateResults
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.sliderActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg processes keyboard input.
//
//nolint:exhaustive // Only handling relevant key types for quiz navigation.
func (m *QuizModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.state = QuizStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case QuizStateAnswering:
		if m.sliderActive() {
			return m.handleSliderKey(msg)
		}
		return m.handleChoiceKey(msg)
	case QuizStateResults, QuizStateError:
		return m.handleResultsKey(msg)
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for option selection.
func (m *QuizModel) handleChoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.questions[m.current].Options

	switch msg.Type {
	case tea.KeyEsc:
		m.state = QuizStateQuitting
		return m, tea.Quit

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case tea.KeyLeft, tea.KeyShiftTab:
		m.previous()
	case tea.KeyEnter:
		if len(options) > 0 {
			return m, m.answerChoice(options[m.cursor].Label)
		}
	case tea.KeyRunes:
		key := string(msg.Runes)
		switch key {
		case "q":
			m.state = QuizStateQuitting
			return m, tea.Quit
		case "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "j":
			if m.cursor < len(options)-1 {
				m.cursor++
			}
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(options) {
				m.cursor = n - 1
				return m, m.answerChoice(options[m.cursor].Label)
			}
		}
	}
	return m, nil
}

//nolint:exhaustive // Only intercepting navigation; everything else edits the input.
func (m *QuizModel) handleSliderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = QuizStateQuitting
		return m, tea.Quit
	case tea.KeyShiftTab:
		m.previous()
		return m, nil
	case tea.KeyEnter:
		return m, m.answerSlider()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

//nolint:exhaustive // Only handling relevant key types on the results screen.
func (m *QuizModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = QuizStateQuitting
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.state = QuizStateQuitting
			return m, tea.Quit
		case "r":
			m.restart()
		}
	}
	return m, nil
}

func (m *QuizModel) answerChoice(label string) tea.Cmd {
	q := m.questions[m.current]
	m.answers[m.current] = &footprint.RawAnswer{
		Category:       q.Category.String(),
		Type:           refdata.KindChoice.String(),
		Topic:          q.Topic,
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		SelectedOption: &label,
	}
	return m.advance()
}

func (m *QuizModel) answerSlider() tea.Cmd {
	q := m.questions[m.current]
	raw := strings.TrimSpace(m.input.Value())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < q.Slider.Min || v > q.Slider.Max {
		m.inputErr = fmt.Sprintf("Enter a number from %g to %g", q.Slider.Min, q.Slider.Max)
		return nil
	}

	m.answers[m.current] = &footprint.RawAnswer{
		Category:     q.Category.String(),
		Type:         refdata.KindSlider.String(),
		Topic:        q.Topic,
		QuestionID:   q.ID,
		QuestionText: q.Text,
		SliderValue:  footprint.NewNumber(v),
	}
	return m.advance()
}

func (m *QuizModel) advance() tea.Cmd {
	if m.current < len(m.questions)-1 {
		m.current++
		m.enterQuestion()
		return nil
	}
	return m.submit()
}

func (m *QuizModel) previous() {
	if m.current > 0 {
		m.current--
		m.enterQuestion()
	}
}

// enterQuestion restores the cursor or input from an earlier answer.
func (m *QuizModel) enterQuestion() {
	m.cursor = 0
	m.inputErr = ""
	m.input.Reset()
	m.input.Blur()
	if len(m.questions) == 0 {
		return
	}

	q := m.questions[m.current]
	prev := m.answers[m.current]
	switch q.Kind {
	case refdata.KindSlider:
		if q.Slider != nil {
			m.input.Placeholder = fmt.Sprintf("%g-%g %s", q.Slider.Min, q.Slider.Max, q.Slider.Unit)
		}
		if prev != nil && prev.SliderValue != nil {
			m.input.SetValue(strconv.FormatFloat(prev.SliderValue.Value, 'f', -1, 64))
		}
		m.input.Focus()
	case refdata.KindChoice:
		if prev != nil && prev.SelectedOption != nil {
			for i, o := range q.Options {
				if o.Label == *prev.SelectedOption {
					m.cursor = i
				}
			}
		}
	}
}

func (m *QuizModel) submit() tea.Cmd {
	m.state = QuizStateCalculating
	answers := m.Answers()
	calculate := m.calculate
	return func() tea.Msg {
		result, err := calculate(answers)
		return quizResultMsg{result: result, err: err}
	}
}

func (m *QuizModel) restart() {
	m.answers = make([]*footprint.RawAnswer, len(m.questions))
	m.current = 0
	m.result = nil
	m.err = nil
	m.state = QuizStateAnswering
	m.enterQuestion()
}

func (m *QuizModel) sliderActive() bool {
	return m.state == QuizStateAnswering && len(m.questions) > 0 &&
		m.questions[m.current].Kind == refdata.KindSlider && m.questions[m.current].Slider != nil
}

// Answers returns the answers given so far, in question order.
func (m *QuizModel) Answers() []footprint.RawAnswer {
	out := make([]footprint.RawAnswer, 0, len(m.answers))
	for _, a := range m.answers {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Result returns the scored result once the quiz is complete.
func (m *QuizModel) Result() *footprint.ResultSet {
	return m.result
}

// State returns the current state.
func (m *QuizModel) State() QuizState {
	return m.state
}

// View renders the current view.
func (m *QuizModel) View() string {
	switch m.state {
	case QuizStateQuitting:
		return ""
	case QuizStateCalculating:
		return RenderLoadingIndicator()
	case QuizStateError:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + RenderResultsHelp()
	case QuizStateResults:
		return RenderResultTable(m.result) + "\n\n" + RenderResultsHelp()
	case QuizStateAnswering:
	}
	if len(m.questions) == 0 {
		return RenderLoadingIndicator()
	}

	q := m.questions[m.current]
	var sb strings.Builder
	sb.WriteString(RenderProgress(m.current+1, len(m.questions), m.width))
	sb.WriteString("\n\n")
	sb.WriteString(RenderQuestion(q))
	sb.WriteString("\n\n")
	if m.sliderActive() {
		sb.WriteString(m.input.View())
		if m.inputErr != "" {
			sb.WriteString("\n")
			sb.WriteString(errorStyle.Render(m.inputErr))
		}
	} else {
		sb.WriteString(RenderOptions(q.Options, m.cursor))
	}
	sb.WriteString("\n\n")
	sb.WriteString(RenderQuizHelp(m.sliderActive()))
	return sb.String()
}
