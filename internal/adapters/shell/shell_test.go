package shell

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

var shOptions = Options{Program: "/bin/sh", Args: []string{"-c"}}

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

type collected struct {
	info     []domain.InformationRecord
	progress []domain.ProgressRecord
	errs     []string
}

// invoke runs script on host and gathers everything it streamed.
func invoke(t *testing.T, ctx context.Context, host *Host, script string) (collected, error) {
	t.Helper()
	streams := domain.NewStreams(8)
	done := make(chan error, 1)
	go func() {
		defer streams.Close()
		done <- host.Invoke(ctx, script, streams.Writer(ctx))
	}()

	var c collected
	info, progress, errs := streams.Information, streams.Progress, streams.Error
	for info != nil || progress != nil || errs != nil {
		select {
		case r, ok := <-info:
			if !ok {
				info = nil
				continue
			}
			c.info = append(c.info, r)
		case r, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			c.progress = append(c.progress, r)
		case r, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.errs = append(c.errs, r.Message())
		}
	}
	return c, <-done
}

func TestHost_Invoke_RoutesStreams(t *testing.T) {
	skipWithoutSh(t)
	host := NewHost(shOptions, zap.NewNop())

	script := `echo "pulling image"
echo "PROGRESS: download|Downloading layer 40%"
echo ""
echo "container ready"
echo "access denied" 1>&2`

	got, err := invoke(t, context.Background(), host, script)
	require.NoError(t, err)

	require.Len(t, got.info, 2)
	assert.Equal(t, "pulling image", got.info[0].String())
	assert.Equal(t, "container ready", got.info[1].String())
	assert.False(t, got.info[0].Time.IsZero())

	require.Len(t, got.progress, 1)
	assert.Equal(t, "download", got.progress[0].Activity)
	assert.Equal(t, "Downloading layer 40%", got.progress[0].StatusDescription)
	assert.Equal(t, 40, got.progress[0].PercentComplete)

	assert.Equal(t, []string{"access denied"}, got.errs)
}

func TestHost_Invoke_ExitCode(t *testing.T) {
	skipWithoutSh(t)
	host := NewHost(shOptions, zap.NewNop())

	_, err := invoke(t, context.Background(), host, "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 3")
}

func TestHost_Invoke_StartFailure(t *testing.T) {
	host := NewHost(Options{Program: "/nonexistent/shell"}, zap.NewNop())
	_, err := invoke(t, context.Background(), host, "echo hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestHost_Invoke_Cancel(t *testing.T) {
	skipWithoutSh(t)
	host := NewHost(shOptions, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := invoke(t, ctx, host, "sleep 30")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestParseProgress(t *testing.T) {
	testCases := []struct {
		in   string
		want domain.ProgressRecord
	}{
		{" Copying files", domain.ProgressRecord{StatusDescription: "Copying files", PercentComplete: -1}},
		{"pull|Extracting 100%", domain.ProgressRecord{Activity: "pull", StatusDescription: "Extracting 100%", PercentComplete: 100}},
		{"Waiting 250%", domain.ProgressRecord{StatusDescription: "Waiting 250%", PercentComplete: -1}},
		{"", domain.ProgressRecord{PercentComplete: -1}},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseProgress(tc.in))
		})
	}
}

func TestQueryLane_Query(t *testing.T) {
	skipWithoutSh(t)
	lane := NewQueryLane(shOptions, zap.NewNop())

	lines, err := lane.Query(context.Background(), `printf 'abc123;web1;Up 3 minutes (healthy)\ndef456;db1;Exited (0) 2 hours ago\n'`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"abc123;web1;Up 3 minutes (healthy)",
		"def456;db1;Exited (0) 2 hours ago",
	}, lines)
}

func TestQueryLane_Query_Empty(t *testing.T) {
	skipWithoutSh(t)
	lane := NewQueryLane(shOptions, zap.NewNop())

	lines, err := lane.Query(context.Background(), "true")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestQueryLane_Query_Failure(t *testing.T) {
	skipWithoutSh(t)
	lane := NewQueryLane(shOptions, zap.NewNop())

	_, err := lane.Query(context.Background(), "echo 'daemon not running' 1>&2; exit 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon not running")
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultProgram, opts.Program)
	assert.Equal(t, DefaultArgs, opts.Args)
	assert.Equal(t, DefaultProgressPrefix, opts.ProgressPrefix)

	testCases := []struct {
		program string
		want    []string
	}{
		{"pwsh", DefaultArgs},
		{`C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`, DefaultArgs},
		{"/bin/sh", []string{"-c"}},
		{"/usr/bin/bash", []string{"-c"}},
		{"cmd.exe", []string{"/C"}},
		{"/opt/custom/runner", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.program, func(t *testing.T) {
			assert.Equal(t, tc.want, Options{Program: tc.program}.withDefaults().Args)
		})
	}

	explicit := Options{Program: "/bin/bash", Args: []string{"-lc"}}.withDefaults()
	assert.Equal(t, []string{"-lc"}, explicit.Args)
}

func TestHost_Invoke_LongLine(t *testing.T) {
	skipWithoutSh(t)
	host := NewHost(shOptions, zap.NewNop())

	script := `head -c 1100000 /dev/zero | tr '\000' x; echo; echo after long line; echo real failure >&2`
	got, err := invoke(t, context.Background(), host, script)
	require.NoError(t, err)

	require.Len(t, got.info, 3)
	assert.Len(t, got.info[0].MessageData, maxLineSize)
	assert.Len(t, got.info[1].MessageData, 1100000-maxLineSize)
	assert.Equal(t, "after long line", got.info[2].MessageData)
	assert.Equal(t, []string{"real failure"}, got.errs)
}

func TestSplitLines(t *testing.T) {
	advance, token, err := splitLines([]byte("one\ntwo"), false)
	require.NoError(t, err)
	assert.Equal(t, 4, advance)
	assert.Equal(t, "one", string(token))

	advance, token, err = splitLines([]byte("two"), false)
	require.NoError(t, err)
	assert.Zero(t, advance)
	assert.Nil(t, token)

	advance, token, err = splitLines([]byte("two"), true)
	require.NoError(t, err)
	assert.Equal(t, 3, advance)
	assert.Equal(t, "two", string(token))

	long := make([]byte, maxLineSize+10)
	advance, token, err = splitLines(long, false)
	require.NoError(t, err)
	assert.Equal(t, maxLineSize, advance)
	assert.Len(t, token, maxLineSize)
}
