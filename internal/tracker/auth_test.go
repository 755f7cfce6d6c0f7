package tracker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess stands in for the auth helper binary. It prints the
// token configured for the requested mode.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("WISYNC_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--mode" && i+1 < len(args) {
			fmt.Print(os.Getenv("WISYNC_HELPER_TOKEN_" + strings.ToUpper(args[i+1])))
		}
	}
	os.Exit(0)
}

// fakeHelper swaps newExecCommand for one that runs TestHelperProcess and
// records every invocation.
func fakeHelper(t *testing.T, tokens map[string]string) *[]string {
	t.Helper()
	var calls []string

	orig := newExecCommand
	t.Cleanup(func() { newExecCommand = orig })

	newExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, name+" "+strings.Join(args, " "))
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "WISYNC_WANT_HELPER_PROCESS=1")
		for mode, tok := range tokens {
			cmd.Env = append(cmd.Env, "WISYNC_HELPER_TOKEN_"+strings.ToUpper(mode)+"="+tok)
		}
		return cmd
	}
	return &calls
}

func TestStaticPAT(t *testing.T) {
	cred, err := StaticPAT("secret").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic OnNlY3JldA==", cred.header())

	_, err = StaticPAT(" ").Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAzureAuth_BrokerTokenCached(t *testing.T) {
	calls := fakeHelper(t, map[string]string{"broker": "tok-broker\n"})
	auth := NewAzureAuth("/opt/azureauth")

	cred, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-broker", cred.header())

	_, err = auth.Token(context.Background())
	require.NoError(t, err)

	require.Len(t, *calls, 1, "second call is served from cache")
	assert.Equal(t, "/opt/azureauth ado token --mode broker --domain microsoft.com --output token", (*calls)[0])
}

func TestAzureAuth_FallsBackToIWA(t *testing.T) {
	calls := fakeHelper(t, map[string]string{"iwa": "tok-iwa"})
	auth := NewAzureAuth("")

	cred, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-iwa", cred.Value)
	require.Len(t, *calls, 2)
	assert.True(t, strings.HasPrefix((*calls)[0], DefaultAuthHelper+" "))
	assert.Contains(t, (*calls)[1], "--mode iwa")
}

func TestAzureAuth_NoToken(t *testing.T) {
	fakeHelper(t, nil)
	auth := NewAzureAuth("/opt/azureauth")

	_, err := auth.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "WISYNC_ADO_PAT")
}

func TestAzureAuth_ClearAndConfigure(t *testing.T) {
	calls := fakeHelper(t, map[string]string{"broker": "tok"})
	auth := NewAzureAuth("/a")

	_, err := auth.Token(context.Background())
	require.NoError(t, err)

	auth.Configure("/a")
	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Len(t, *calls, 1, "same path keeps the cache")

	auth.Clear()
	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Len(t, *calls, 2)

	auth.Configure("/b")
	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	require.Len(t, *calls, 3)
	assert.True(t, strings.HasPrefix((*calls)[2], "/b "))
}
