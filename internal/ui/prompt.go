package ui

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = huh.ErrUserAborted

const promptWidth = 72

// SaveAnswers holds the save fields collected interactively.
type SaveAnswers struct {
	Context  string
	NextTask string
	Extended string
}

// PromptSave asks for whichever required save fields are still empty.
// Extended context is offered only when neither was supplied.
func PromptSave(a *SaveAnswers) error {
	var fields []huh.Field
	askedBoth := a.Context == "" && a.NextTask == ""

	if a.Context == "" {
		fields = append(fields, huh.NewText().
			Title("Context").
			Description("What was accomplished in this session").
			CharLimit(4000).
			Validate(required("context")).
			Value(&a.Context))
	}
	if a.NextTask == "" {
		fields = append(fields, huh.NewInput().
			Title("Next task").
			Description("What needs to be done next").
			Validate(required("next task")).
			Value(&a.NextTask))
	}
	if askedBoth && a.Extended == "" {
		fields = append(fields, huh.NewInput().
			Title("Extended context").
			Description(`Optional JSON, e.g. {"decisions": ["Use JWT"]}`).
			Placeholder("{}").
			Value(&a.Extended))
	}
	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(FormTheme()).
		WithWidth(promptWidth).
		Run()
}

// PickOption is one selectable session.
type PickOption struct {
	Label string
	ID    string
}

// PickSession lets the user choose one of options and returns its id.
func PickSession(options []PickOption) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no sessions to choose from")
	}

	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.ID)
	}
	id := options[0].ID

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Resume session").
			Options(opts...).
			Height(12).
			Value(&id),
	)).WithTheme(FormTheme()).Run()
	return id, err
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(FormTheme()).Run()
	return ok, err
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

// FormTheme returns a huh theme that matches the current color palette.
// This is called each time a form is created to pick up the current theme colors.
func FormTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		// Focused field: active field with left border indicator
		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		// Select styles
		t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorPrimary).SetString("> ")
		t.Focused.Option = lipgloss.NewStyle().Foreground(ColorText)
		t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)

		// Confirm button styles
		t.Focused.FocusedButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextInverse).
			Background(ColorPrimary)
		t.Focused.BlurredButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextMuted)

		// Text input styles
		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		// Blurred field: inactive field with hidden border
		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().
			PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.Group.Title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		t.Group.Description = lipgloss.NewStyle().Foreground(ColorTextMuted)

		t.Help = help.New().Styles

		return t
	})
}
