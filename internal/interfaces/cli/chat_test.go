package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"neighbournode.dev/cli/internal/core/domain"
)

func typeInto(model chatModel, text string) chatModel {
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(chatModel)
}

func TestChatModel_EnterSendsQuestion(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "need a ladder")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(chatModel)

	require.NotNil(t, cmd)
	assert.True(t, model.waiting)
	require.Len(t, model.history, 1)
	assert.Equal(t, roleYou, model.history[0].role)
	assert.Equal(t, "need a ladder", model.history[0].text)
	assert.Empty(t, string(model.input))
}

func TestChatModel_EnterIgnoresEmptyInput(t *testing.T) {
	model := newChatModel(&CLIContainer{}, nil, nil)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(chatModel)

	assert.Nil(t, cmd)
	assert.False(t, model.waiting)
	assert.Empty(t, model.history)
}

func TestChatModel_QuitCommands(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "/quit")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestChatModel_BackspaceEditsRunes(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "héllo")

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model = updated.(chatModel)

	assert.Equal(t, "héll", string(model.input))
}

func TestChatModel_AnswerAppendsToHistory(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "anything nearby?")
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(chatModel)

	answer := &domain.ChatAnswer{Response: "A neighbour offers a ladder."}
	updated, _ = model.Update(chatAnswerMsg{answer: answer})
	model = updated.(chatModel)

	assert.False(t, model.waiting)
	require.Len(t, model.history, 2)
	assert.Equal(t, roleAssistant, model.history[1].role)
	assert.Contains(t, model.history[1].text, "A neighbour offers a ladder.")
}

func TestChatModel_ErrorKeepsSessionAlive(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "hello")
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(chatModel)

	updated, cmd := model.Update(chatErrMsg{err: assert.AnError})
	model = updated.(chatModel)

	assert.Nil(t, cmd)
	assert.False(t, model.waiting)
	require.Len(t, model.history, 2)
	assert.Contains(t, model.history[1].text, assert.AnError.Error())
}

func TestChatModel_ViewShowsPromptAndTranscript(t *testing.T) {
	model := typeInto(newChatModel(&CLIContainer{}, nil, nil), "hi")

	view := model.View()
	assert.Contains(t, view, "Neighbour Node Assistant")
	assert.Contains(t, view, "hi")
}
