package prompt

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bashhack/gitwip/internal/conventional"
	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// Answers are the parts of a finalized commit message.
type Answers struct {
	Type  string
	Scope string
	Title string
}

// Message formats the answers as a conventional commit message.
func (a Answers) Message() (string, error) {
	return conventional.Format(a.Type, a.Scope, a.Title)
}

// Prompter collects the final commit message parts. defaults pre-fill the
// answers; an empty Type means the first taxonomy entry.
type Prompter interface {
	Ask(ctx context.Context, defaults Answers) (Answers, error)
}

// FormPrompter asks through an interactive huh form.
type FormPrompter struct {
	accessible bool
}

// NewFormPrompter creates a FormPrompter. Accessible mode replaces the TUI
// with plain line prompts, which also works without a full terminal.
func NewFormPrompter(accessible bool) *FormPrompter {
	return &FormPrompter{accessible: accessible}
}

// Ask implements Prompter. A user abort returns errors.ErrPromptAborted.
func (p *FormPrompter) Ask(ctx context.Context, defaults Answers) (Answers, error) {
	answers := defaults
	if !conventional.IsValidType(answers.Type) {
		answers.Type = conventional.Types[0]
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Commit type").
				Description("Select the type of change you're committing").
				Options(typeOptions()...).
				Value(&answers.Type),

			huh.NewInput().
				Title("Scope").
				Description("What part of the product does this change touch? (required)").
				Placeholder("e.g., parser, api, docs").
				Value(&answers.Scope).
				Validate(validateScope),

			huh.NewInput().
				Title("Title").
				Description("Short summary of the change (required)").
				Placeholder("e.g., add retry budget to uploads").
				Value(&answers.Title).
				Validate(validateTitle),
		),
	).WithAccessible(p.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if gitwipErrors.Is(err, huh.ErrUserAborted) {
			return Answers{}, gitwipErrors.ErrPromptAborted
		}
		return Answers{}, gitwipErrors.Wrap(err, "commit message form")
	}

	return answers, nil
}

// StaticPrompter returns fixed answers without interaction, falling back to
// the defaults for any empty field.
type StaticPrompter struct {
	Answers Answers
}

// Ask implements Prompter.
func (p StaticPrompter) Ask(_ context.Context, defaults Answers) (Answers, error) {
	answers := p.Answers
	if answers.Type == "" {
		answers.Type = defaults.Type
	}
	if answers.Scope == "" {
		answers.Scope = defaults.Scope
	}
	if answers.Title == "" {
		answers.Title = defaults.Title
	}
	return answers, nil
}

func typeOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(conventional.Types))
	for _, t := range conventional.Types {
		options = append(options, huh.NewOption(t, t))
	}
	return options
}

func validateScope(s string) error {
	if conventional.NormalizeScope(s) == "" {
		return gitwipErrors.New("scope is required")
	}
	return nil
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return gitwipErrors.New("title is required")
	}
	return nil
}
