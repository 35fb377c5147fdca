package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the CLI with a fresh home directory unless HOME was already
// pointed somewhere by the test.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	st := &state{}
	defer st.close()

	root := newRootCmd(st)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func demoEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEGENDS_AUTH_URL", "")
	t.Setenv("LEGENDS_DOWNLOAD_DIR", filepath.Join(home, "briefs"))
	return home
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != "legends dev" {
		t.Errorf("output = %q", out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	demoEnv(t)
	out, err := execute(t, "", "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"legends brief", "legends login", "legends whoami", "--config"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestBriefDownload(t *testing.T) {
	home := demoEnv(t)
	out, err := execute(t, "", "brief",
		"--name", "Atlas Redesign",
		"--type", "Web Application",
		"--idea", "A faster storefront",
		"--features", "Search, Checkout",
		"--output", "d")
	if err != nil {
		t.Fatalf("brief error: %v", err)
	}
	path := filepath.Join(home, "briefs", "atlas-redesign.md")
	if !strings.Contains(out, path) {
		t.Errorf("output = %q, want path %q", out, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Atlas Redesign", "Web Application", "- Search", "- Checkout"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("brief missing %q", want)
		}
	}
}

func TestBriefCustomFileName(t *testing.T) {
	home := demoEnv(t)
	if _, err := execute(t, "", "brief", "--name", "Atlas", "-o", "download", "--file", "kickoff"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(home, "briefs", "kickoff.md")); err != nil {
		t.Errorf("expected kickoff.md: %v", err)
	}
}

func TestBriefValidation(t *testing.T) {
	demoEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing output", []string{"brief", "--name", "x"}},
		{"bad output", []string{"brief", "--output", "fax"}},
		{"bad dev type", []string{"brief", "--output", "d", "--type", "Mainframe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoginRequiresPasswordStdin(t *testing.T) {
	demoEnv(t)
	_, err := execute(t, "", "login", "--email", "ada@example.com")
	if err != errPasswordFlag {
		t.Errorf("err = %v, want errPasswordFlag", err)
	}
}

func TestLoginDemo(t *testing.T) {
	demoEnv(t)
	out, err := execute(t, "secret\n", "login", "--email", "ada@example.com", "--password-stdin")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, "Signed in as ada@example.com") || !strings.Contains(out, "Demo mode") {
		t.Errorf("output = %q", out)
	}
}

func TestSignUpDemoDoesNotSignIn(t *testing.T) {
	demoEnv(t)
	out, err := execute(t, "secret", "signup", "--email", "new@example.com", "--password-stdin")
	if err != nil {
		t.Fatalf("signup error: %v", err)
	}
	if !strings.Contains(out, "Confirm your email") {
		t.Errorf("output = %q", out)
	}
}

func TestWhoamiAnonymous(t *testing.T) {
	demoEnv(t)
	out, err := execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("output = %q", out)
	}
}

// identityServer is a minimal GoTrue-compatible provider.
func identityServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error_description":"Invalid login credentials"}`) //nolint:errcheck
				return
			}
			fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","expires_at":4102444800,"user":{"id":"u-1","email":"ada@example.com"}}`) //nolint:errcheck
		case "/auth/v1/user":
			fmt.Fprint(w, `{"id":"u-1","email":"ada@example.com"}`) //nolint:errcheck
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/auth/v1/recover":
			fmt.Fprint(w, `{}`) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLiveLoginWhoamiLogout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEGENDS_AUTH_URL", identityServer(t).URL)
	t.Setenv("LEGENDS_AUTH_KEY", "anon")
	sessionFile := filepath.Join(home, ".legends", "session.json")

	if _, err := execute(t, "secret\n", "login", "--email", "ada@example.com", "--password-stdin"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if _, err := os.Stat(sessionFile); err != nil {
		t.Fatalf("session file not written: %v", err)
	}

	out, err := execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ada@example.com") || !strings.Contains(out, "u-1") {
		t.Errorf("whoami output = %q", out)
	}

	if _, err := execute(t, "", "logout"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(sessionFile); !os.IsNotExist(err) {
		t.Errorf("session file still present after logout: %v", err)
	}
}

func TestLiveLoginErrorPassesThrough(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEGENDS_AUTH_URL", identityServer(t).URL)

	_, err := execute(t, "wrong\n", "login", "--email", "ada@example.com", "--password-stdin")
	if err == nil || err.Error() != "Invalid login credentials" {
		t.Errorf("err = %v, want provider message", err)
	}
}

func TestResetPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEGENDS_AUTH_URL", identityServer(t).URL)

	out, err := execute(t, "", "reset-password", "--email", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "reset link") {
		t.Errorf("output = %q", out)
	}
}
