//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
)

const (
	ProviderName = "contacts-api"
	ConsumerName = "address-book-web"

	StateContactsBaseline = "contacts baseline"
	StateContactExists    = "contact Ann Lee exists"
	StateContactMissing   = "no contact with the missing id"
)

var (
	ExistingContactID = uuid.MustParse("7b0c5d3e-2f9a-4c1e-9d5b-3a1f6e8c2b40")
	MissingContactID  = uuid.MustParse("00000000-0000-4000-8000-000000000404")
	ActorID           = uuid.MustParse("5f8d7a21-6c3b-4e9f-a1d2-0b7c9e4f3a18")
)

const (
	ExampleFirstName = "Ann"
	ExampleLastName  = "Lee"
	ExamplePhone     = "+1 555 0100"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the address book consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleContactRequest is the create payload used by the consumer.
func ExampleContactRequest() map[string]any {
	return map[string]any{
		"firstName": ExampleFirstName,
		"lastName":  ExampleLastName,
		"nickName":  "",
		"note":      "",
		"phoneNumbers": []map[string]any{
			{"phone": ExamplePhone, "type": "mobile"},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
