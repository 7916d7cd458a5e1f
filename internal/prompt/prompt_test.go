package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/gitwip/internal/conventional"
	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

func TestValidators(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		validate func(string) error
		input    string
		wantErr  bool
	}{
		"ScopeValid":          {validate: validateScope, input: "api"},
		"ScopeNormalizable":   {validate: validateScope, input: "my product"},
		"ScopeEmpty":          {validate: validateScope, input: "", wantErr: true},
		"ScopeOnlySymbols":    {validate: validateScope, input: " ** ", wantErr: true},
		"TitleValid":          {validate: validateTitle, input: "add login"},
		"TitleWhitespaceOnly": {validate: validateTitle, input: " \t ", wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.validate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswersMessage(t *testing.T) {
	t.Parallel()

	msg, err := Answers{Type: "feat", Scope: "My App", Title: "  add   login "}.Message()
	require.NoError(t, err)
	assert.Equal(t, "feat(My-App): add login", msg)
	assert.NoError(t, conventional.Validate(msg))

	_, err = Answers{Type: "feature", Scope: "app", Title: "x"}.Message()
	assert.ErrorIs(t, err, gitwipErrors.ErrInvalidCommitFormat)
}

func TestTypeOptionsCoverTaxonomy(t *testing.T) {
	t.Parallel()

	options := typeOptions()
	require.Len(t, options, len(conventional.Types))
	for i, o := range options {
		assert.Equal(t, conventional.Types[i], o.Value)
	}
}

func TestStaticPrompter(t *testing.T) {
	t.Parallel()

	defaults := Answers{Type: "chore", Scope: "product"}

	answers, err := StaticPrompter{Answers: Answers{Type: "fix", Title: "patch it"}}.Ask(context.Background(), defaults)
	require.NoError(t, err)
	assert.Equal(t, Answers{Type: "fix", Scope: "product", Title: "patch it"}, answers)

	answers, err = StaticPrompter{}.Ask(context.Background(), defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, answers)
}
