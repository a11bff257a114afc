// Package mailgate provides a Go client SDK for MailGate, a transactional
// mail-dispatch service with an asynchronous send API.
//
// Sending a message starts a long-running operation on the server. The SDK
// returns a SendOperation that can be polled once, waited on until a terminal
// state is reached, or watched as a stream of status snapshots.
//
// Basic usage:
//
//	client, err := mailgate.New(connectionString)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	op, err := client.Send(ctx, &mailgate.Message{
//	    SenderAddress: sender,
//	    Recipients:    mailgate.Recipients{To: []mailgate.Address{{Address: "to@example.com"}}},
//	    Subject:       "Hello",
//	    PlainText:     "Hello from MailGate.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	snap, err := op.Wait(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Status:", snap.Status)
package mailgate
