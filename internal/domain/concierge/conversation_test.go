package concierge

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	c, err := NewConversation(uuid.New(), nil, "<i>Sam</i>", "Sam@Mail.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Sam", c.GuestName)
	assert.Equal(t, "sam@mail.com", c.GuestEmail)
	assert.Equal(t, ChannelWeb, c.Channel)

	_, err = NewConversation(uuid.New(), nil, "", "", "sms")
	assert.Error(t, err)
	_, err = NewConversation(uuid.New(), nil, "", "bad@", ChannelWeb)
	assert.Error(t, err)
}

func TestConversation_AddMessage(t *testing.T) {
	c, err := NewConversation(uuid.New(), nil, "", "", ChannelWeb)
	require.NoError(t, err)

	msg, err := c.AddMessage(RoleUser, strings.Repeat("a", MaxContentLength+50))
	require.NoError(t, err)
	assert.Len(t, msg.Content, MaxContentLength)
	assert.Equal(t, c.ID, msg.ConversationID)

	_, err = c.AddMessage(RoleUser, "<script>x</script>")
	assert.Error(t, err)
	_, err = c.AddMessage("bot", "hi")
	assert.Error(t, err)

	require.NoError(t, c.Close())
	_, err = c.AddMessage(RoleUser, "hello?")
	assert.Error(t, err)
	assert.Error(t, c.Close())
}

func TestConversation_History(t *testing.T) {
	c, err := NewConversation(uuid.New(), nil, "", "", ChannelWeb)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		_, err := c.AddMessage(RoleUser, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}
	h := c.History(HistoryWindow)
	require.Len(t, h, HistoryWindow)
	assert.Equal(t, "m10", h[0].Content)
	assert.Equal(t, "m29", h[len(h)-1].Content)
	assert.Len(t, c.History(0), 30)
}
