package mailgate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		missing []string
	}{
		{
			name:   "valid",
			mutate: func(m *Message) {},
		},
		{
			name:   "html only body is valid",
			mutate: func(m *Message) { m.PlainText = ""; m.HTML = "<p>hi</p>" },
		},
		{
			name:    "missing sender",
			mutate:  func(m *Message) { m.SenderAddress = "" },
			missing: []string{"sender address"},
		},
		{
			name:    "no recipients",
			mutate:  func(m *Message) { m.Recipients.To = nil },
			missing: []string{"recipient address"},
		},
		{
			name:    "blank recipient entry",
			mutate:  func(m *Message) { m.Recipients.To = []Address{{Address: ""}} },
			missing: []string{"recipient address"},
		},
		{
			name:    "missing subject",
			mutate:  func(m *Message) { m.Subject = "" },
			missing: []string{"subject"},
		},
		{
			name:    "missing body",
			mutate:  func(m *Message) { m.PlainText = ""; m.HTML = "" },
			missing: []string{"body"},
		},
		{
			name: "everything missing",
			mutate: func(m *Message) {
				*m = Message{}
			},
			missing: []string{"sender address", "recipient address", "subject", "body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			tt.mutate(msg)

			err := msg.Validate()
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				return
			}

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			require.Equal(t, tt.missing, valErr.Fields)
		})
	}
}

func TestMessageToAPI(t *testing.T) {
	msg := &Message{
		SenderAddress: "sender@example.com",
		Recipients: Recipients{
			To: []Address{{Address: "to@example.com", DisplayName: "To"}},
			CC: []Address{{Address: "cc@example.com"}},
		},
		Subject:   "Subject",
		PlainText: "plain",
		HTML:      "<p>html</p>",
		Headers:   map[string]string{"X-Campaign": "launch"},
	}

	req := msg.toAPI()
	require.Equal(t, "sender@example.com", req.SenderAddress)
	require.Len(t, req.Recipients.To, 1)
	require.Equal(t, "To", req.Recipients.To[0].DisplayName)
	require.Len(t, req.Recipients.CC, 1)
	require.Nil(t, req.Recipients.BCC)
	require.Equal(t, "Subject", req.Content.Subject)
	require.Equal(t, "plain", req.Content.PlainText)
	require.Equal(t, "<p>html</p>", req.Content.HTML)
	require.Equal(t, "launch", req.Headers["X-Campaign"])
}
