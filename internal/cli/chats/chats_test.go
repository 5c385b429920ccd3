package chats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daypoints/internal/cli/clitest"
)

func TestChatSendSimulatedAndHistory(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := clitest.NewContext(t)

	require.NoError(t, (&ChatSendCmd{Message: []string{"how", "was", "my", "week?"}, Session: "s1", User: "me"}).Run(ctx))
	assert.Contains(t, out.String(), "session s1")
	assert.Contains(t, out.String(), "(simulated)")

	out.Reset()
	require.NoError(t, (&ChatHistoryCmd{Session: "s1", User: "me", Limit: 20}).Run(ctx))
	assert.Contains(t, out.String(), "you: how was my week?")
}

func TestChatHistoryEmpty(t *testing.T) {
	ctx, _, out := clitest.NewContext(t)

	require.NoError(t, (&ChatHistoryCmd{Limit: 20}).Run(ctx))
	assert.Contains(t, out.String(), "No conversations yet.")
}

func TestChatInfo(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := clitest.NewContext(t)

	require.NoError(t, (&ChatInfoCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "mode:  simulated")
	assert.Contains(t, out.String(), "store: connected")
}
