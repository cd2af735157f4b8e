// Package notesync is the Composition Root of a client for a remote notes
// service.
//
// It wires a session manager, which exchanges credentials for a bearer token
// and keeps it in a durable cookie-like store, to a notes sync client that
// mirrors the server's notes into a local, observable collection.
//
// Features:
//
//   - **Confirmed updates only**: the local collection changes only after the
//     service acknowledged the write.
//   - **Explicit outcomes**: every operation returns a Result tagged ok,
//     auth_missing, rejected or transport_failure.
//   - **Durable session**: the fs adapter persists the token in a cookie file
//     and watches it for external logout.
//   - **Observable**: collection and session events, prometheus metrics and
//     introspection State().
//
// Usage:
//
//	client, err := notesync.New(
//		notesync.WithBaseURL("http://localhost:3000"),
//		notesync.WithLogger(logger),
//	)
//
//	res := client.Session.Login(ctx, "a@x.com", "secret")
//	if !res.OK() {
//		for _, msg := range res.Messages {
//			fmt.Println(msg)
//		}
//	}
//
//	client.Notes.Load(ctx)
//	client.Notes.Create(ctx, "Groceries", "milk,eggs")
package notesync
