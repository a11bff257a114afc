package mailgate

import "github.com/mailgate/client-go/internal/api"

// Address is a single sender or recipient address.
type Address struct {
	Address     string
	DisplayName string
}

// Recipients groups the recipient lists of a message.
type Recipients struct {
	To  []Address
	CC  []Address
	BCC []Address
}

// Message describes one outbound email. SenderAddress, at least one To
// recipient, Subject and one body variant are required.
type Message struct {
	SenderAddress string
	Recipients    Recipients
	Subject       string
	PlainText     string
	HTML          string
	Headers       map[string]string
}

// Validate checks the required fields. It returns a *ValidationError naming
// every missing field; Send calls it before any network request is made.
func (m *Message) Validate() error {
	var missing []string

	if m.SenderAddress == "" {
		missing = append(missing, "sender address")
	}
	if len(m.Recipients.To) == 0 {
		missing = append(missing, "recipient address")
	}
	for _, r := range m.Recipients.To {
		if r.Address == "" {
			missing = append(missing, "recipient address")
			break
		}
	}
	if m.Subject == "" {
		missing = append(missing, "subject")
	}
	if m.PlainText == "" && m.HTML == "" {
		missing = append(missing, "body")
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// toAPI converts the message to its wire representation.
func (m *Message) toAPI() *api.SendRequest {
	return &api.SendRequest{
		SenderAddress: m.SenderAddress,
		Recipients: api.Recipients{
			To:  toAPIAddresses(m.Recipients.To),
			CC:  toAPIAddresses(m.Recipients.CC),
			BCC: toAPIAddresses(m.Recipients.BCC),
		},
		Content: api.Content{
			Subject:   m.Subject,
			PlainText: m.PlainText,
			HTML:      m.HTML,
		},
		Headers: m.Headers,
	}
}

func toAPIAddresses(addrs []Address) []api.EmailAddress {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]api.EmailAddress, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, api.EmailAddress{Address: a.Address, DisplayName: a.DisplayName})
	}
	return out
}
