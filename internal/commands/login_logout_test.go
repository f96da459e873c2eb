package commands_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"ghdaily/internal/commands"
	"ghdaily/internal/config"
	"ghdaily/internal/credential"
	"ghdaily/internal/exitcode"
)

// fileEnv builds an Env backed by a real credentials file in a temp dir.
func fileEnv(t *testing.T, prompter credential.Prompter) (*commands.Env, *credential.FileStore) {
	t.Helper()

	cfg := config.Default(t.TempDir())
	store := credential.NewFileStore(cfg.CredentialsPath())
	return &commands.Env{
		Config: cfg,
		Tokens: credential.NewResolver(store, prompter),
	}, store
}

// TestLoginCommand_StoresToken verifies the prompted token lands in the credentials file
func TestLoginCommand_StoresToken(t *testing.T) {
	env, store := fileEnv(t, credential.PrompterFunc(func(_ context.Context, hint string) (string, error) {
		if hint != credential.ScopeRepo {
			t.Errorf("expected hint %q, got %q", credential.ScopeRepo, hint)
		}
		return "  ghp_secret \n", nil
	}))

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LoginCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected ok, got %q", outBuf.String())
	}

	got, found, err := store.Get(credential.TokenKey)
	if err != nil || !found || got != "ghp_secret" {
		t.Errorf("expected stored trimmed token, got %q found=%v err=%v", got, found, err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("credentials file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies login does not prompt again
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	prompted := false
	env, store := fileEnv(t, credential.PrompterFunc(func(context.Context, string) (string, error) {
		prompted = true
		return "other", nil
	}))
	if err := store.Set(credential.TokenKey, "existing"); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LoginCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "already logged in\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
	if prompted {
		t.Error("expected no prompt")
	}
}

// TestLoginCommand_Declined verifies an empty answer is an auth error and nothing is stored
func TestLoginCommand_Declined(t *testing.T) {
	env, store := fileEnv(t, nil)

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LoginCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !bytes.Contains(errBuf.Bytes(), []byte("error: no token entered")) {
		t.Errorf("expected declined message, got %q", errBuf.String())
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("expected no credentials file, stat err=%v", err)
	}
}

// TestLogoutCommand_RemovesToken verifies logout deletes the stored token
func TestLogoutCommand_RemovesToken(t *testing.T) {
	env, store := fileEnv(t, nil)
	if err := store.Set(credential.TokenKey, "existing"); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected ok, got %q", outBuf.String())
	}
	if _, found, _ := store.Get(credential.TokenKey); found {
		t.Error("expected token removed")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout without a token succeeds
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	env, _ := fileEnv(t, nil)

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
}

// TestLogoutCommand_EmptyToken verifies an empty stored value counts as logged out
func TestLogoutCommand_EmptyToken(t *testing.T) {
	env, store := fileEnv(t, nil)
	if err := store.Set(credential.TokenKey, ""); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected not logged in, got %q", outBuf.String())
	}
}

// TestLogoutCommand_Quiet verifies quiet mode suppresses output
func TestLogoutCommand_Quiet(t *testing.T) {
	env, store := fileEnv(t, nil)
	env.Config.Quiet = true
	if err := store.Set(credential.TokenKey, "existing"); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), env, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.Len() != 0 || errBuf.Len() != 0 {
		t.Errorf("expected no output, got %q / %q", outBuf.String(), errBuf.String())
	}
}
