package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	msg := NewMessage("done").
		AddLine("1 zeroshot").
		AddLine("2 zeroshot").
		ReplyTo(3).
		ReferenceTime(ts)

	assert.Equal(t, "done\n1 zeroshot\n2 zeroshot", msg.Text)
	assert.Equal(t, 3, msg.Reply)
	assert.Equal(t, ts, msg.Time)
	assert.NoError(t, NewVoid().Send(msg))
}
