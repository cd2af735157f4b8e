package notesync_test

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"

	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/notesync"
	"github.com/aretw0/notesync/internal/devserver"
)

// Example_basic logs in, creates a note and reloads the collection.
func Example_basic() {
	// A local in-memory notes service
	srv := httptest.NewServer(devserver.New(devserver.WithBcryptCost(bcrypt.MinCost)).Handler())
	defer srv.Close()

	client, err := notesync.New(
		notesync.WithBaseURL(srv.URL),
		notesync.WithAdapter("memory"),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Register and log in
	client.Session.Register(ctx, "gopher@example.com", "secret1", "secret1", nil)
	res := client.Session.Login(ctx, "gopher@example.com", "secret1")
	fmt.Println(res.Message)

	// 2. Create a note; the collection is updated once the service confirms it
	res = client.Notes.Create(ctx, "Groceries", "milk,eggs")
	fmt.Println(res.Change.Kind, res.Change.Note.ID)

	// 3. Reload from the service
	client.Notes.Load(ctx)
	for _, n := range client.Notes.Notes() {
		fmt.Printf("%d %s: %s\n", n.ID, n.Title, n.Content)
	}
	// Output:
	// You have successfully logged in
	// inserted 1
	// 1 Groceries: milk,eggs
}

// Example_errorList shows how service rejections populate the error list.
func Example_errorList() {
	srv := httptest.NewServer(devserver.New().Handler())
	defer srv.Close()

	client, err := notesync.New(notesync.WithBaseURL(srv.URL), notesync.WithAdapter("memory"))
	if err != nil {
		log.Fatal(err)
	}

	res := client.Session.Register(context.Background(), "not-an-email", "secret1", "other", nil)
	fmt.Println(res.Outcome)
	for _, msg := range res.Messages {
		fmt.Println(msg)
	}
	// Output:
	// rejected
	// email must be a valid email
	// confirm_password must match password
}

// Example_authMissing shows that creating without a session never reaches the network.
func Example_authMissing() {
	client, err := notesync.New(
		notesync.WithBaseURL("http://127.0.0.1:1"),
		notesync.WithAdapter("memory"),
	)
	if err != nil {
		log.Fatal(err)
	}

	res := client.Notes.Create(context.Background(), "t", "c")
	fmt.Println(res.Outcome, res.Messages)
	// Output:
	// auth_missing [authentication token is missing]
}
