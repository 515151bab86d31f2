package redirect

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		background bool
		want       Plan
	}{
		{
			name: "no redirection",
			args: []string{"ls", "-l"},
			want: Plan{Args: []string{"ls", "-l"}},
		},
		{
			name: "input and output",
			args: []string{"wc", "-l", "<", "in.txt", ">", "out.txt"},
			want: Plan{
				Args: []string{"wc", "-l"},
				Actions: []Action{
					{Direction: Input, Path: "in.txt"},
					{Direction: Output, Path: "out.txt"},
				},
			},
		},
		{
			name: "adjacent operators",
			args: []string{"sort", ">", "a", ">", "b", "-r"},
			want: Plan{
				Args: []string{"sort", "-r"},
				Actions: []Action{
					{Direction: Output, Path: "a"},
					{Direction: Output, Path: "b"},
				},
			},
		},
		{
			name:       "background defaults both streams",
			args:       []string{"sleep", "5"},
			background: true,
			want: Plan{
				Args: []string{"sleep", "5"},
				Actions: []Action{
					{Direction: Input, Path: os.DevNull},
					{Direction: Output, Path: os.DevNull},
				},
			},
		},
		{
			name:       "background keeps explicit output",
			args:       []string{"ls", ">", "junk"},
			background: true,
			want: Plan{
				Args: []string{"ls"},
				Actions: []Action{
					{Direction: Input, Path: os.DevNull},
					{Direction: Output, Path: "junk"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.args, tt.background)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	args := []string{"cat", "<", "in", "x"}
	_, err := Build(args, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "<", "in", "x"}, args)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([]string{"cat", "<"}, false)
	assert.ErrorIs(t, err, ErrMissingTarget)

	_, err = Build([]string{"cat", "in", ">"}, false)
	assert.ErrorIs(t, err, ErrMissingTarget)

	_, err = Build([]string{">", "out"}, false)
	assert.ErrorIs(t, err, ErrMissingCommand)
}

func TestApplyTo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("stale content to truncate"), 0o644))

	in, err := os.CreateTemp(dir, "stdin")
	require.NoError(t, err)
	defer in.Close()
	out, err := os.CreateTemp(dir, "stdout")
	require.NoError(t, err)
	defer out.Close()

	plan := Plan{
		Args: []string{"cat"},
		Actions: []Action{
			{Direction: Input, Path: src},
			{Direction: Output, Path: dst},
		},
	}
	require.NoError(t, plan.ApplyTo(int(in.Fd()), int(out.Fd())))

	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = out.WriteString("fresh")
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestApplyToMissingInput(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope")

	plan := Plan{Args: []string{"cat"}, Actions: []Action{{Direction: Input, Path: missing}}}
	err := plan.ApplyTo(-1, -1)

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, missing, openErr.Path)
	assert.Contains(t, err.Error(), "cannot open '"+missing+"' for input")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
