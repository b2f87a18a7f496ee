package sratools_test

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
	"github.com/m-mizutani/srafetch/pkg/infra/sratools"
)

type command struct {
	Name string
	Args []string
}

// fakeToolkit mimics prefetch and fasterq-dump writing their usual outputs
type fakeToolkit struct {
	commands []command
	failOn   string
	paired   bool
}

func (f *fakeToolkit) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, command{Name: name, Args: args})
	if name == f.failOn {
		return []byte("err: item not found"), errors.New("exit status 3")
	}

	switch name {
	case "prefetch":
		// ... --output-directory <stage> <run>
		stage, run := args[len(args)-2], args[len(args)-1]
		dir := filepath.Join(stage, run)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		return nil, os.WriteFile(filepath.Join(dir, run+".sra"), []byte("sra"), 0644)

	case "fasterq-dump":
		// ... --outdir <dest> <stage>/<run>
		dest, runStage := args[len(args)-2], args[len(args)-1]
		run := filepath.Base(runStage)
		if f.paired {
			for _, mate := range []string{"_1", "_2"} {
				if err := os.WriteFile(filepath.Join(dest, run+mate+".fastq"), []byte("@"+run+mate+"\nACGT\n+\nIIII\n"), 0644); err != nil {
					return nil, err
				}
			}
			return nil, nil
		}
		return nil, os.WriteFile(filepath.Join(dest, run+".fastq"), []byte("@"+run+"\nACGT\n+\nIIII\n"), 0644)
	}

	return nil, errors.New("unexpected command " + name)
}

func readGzip(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	gt.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	gt.NoError(t, err)
	data, err := io.ReadAll(zr)
	gt.NoError(t, err)
	return string(data)
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("prefetch then dump with pass-through args", func(t *testing.T) {
		dest := t.TempDir()
		tk := &fakeToolkit{}
		f := sratools.New(sratools.Config{
			PrefetchArgs: []string{"--max-size", "u"},
			DumpArgs:     []string{"--split-files", "--threads", "8"},
		}, sratools.WithRunner(tk.run))

		gt.NoError(t, f.Fetch(ctx, "SRR1", dest))

		gt.A(t, tk.commands).Length(2)
		stage := filepath.Join(dest, ".prefetch")
		gt.Equal(t, tk.commands[0], command{
			Name: "prefetch",
			Args: []string{"--max-size", "u", "--output-directory", stage, "SRR1"},
		})
		gt.Equal(t, tk.commands[1], command{
			Name: "fasterq-dump",
			Args: []string{"--split-files", "--threads", "8", "--outdir", dest, filepath.Join(stage, "SRR1")},
		})

		_, err := os.Stat(filepath.Join(dest, "SRR1.fastq"))
		gt.NoError(t, err)
		_, err = os.Stat(stage)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("default dump args", func(t *testing.T) {
		tk := &fakeToolkit{}
		f := sratools.New(sratools.Config{}, sratools.WithRunner(tk.run))
		gt.NoError(t, f.Fetch(ctx, "SRR1", t.TempDir()))
		gt.Equal(t, tk.commands[1].Args[0], "--split-files")
	})

	t.Run("compresses paired output", func(t *testing.T) {
		dest := t.TempDir()
		// unrelated run sharing a prefix must be left alone
		gt.NoError(t, os.WriteFile(filepath.Join(dest, "SRR10_1.fastq"), []byte("other"), 0644))

		tk := &fakeToolkit{paired: true}
		f := sratools.New(sratools.Config{Compress: true}, sratools.WithRunner(tk.run))
		gt.NoError(t, f.Fetch(ctx, "SRR1", dest))

		gt.Equal(t, readGzip(t, filepath.Join(dest, "SRR1_1.fastq.gz")), "@SRR1_1\nACGT\n+\nIIII\n")
		gt.Equal(t, readGzip(t, filepath.Join(dest, "SRR1_2.fastq.gz")), "@SRR1_2\nACGT\n+\nIIII\n")

		_, err := os.Stat(filepath.Join(dest, "SRR1_1.fastq"))
		gt.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dest, "SRR10_1.fastq"))
		gt.NoError(t, err)
	})

	t.Run("keeps sra files when requested", func(t *testing.T) {
		dest := t.TempDir()
		tk := &fakeToolkit{}
		f := sratools.New(sratools.Config{KeepSRA: true}, sratools.WithRunner(tk.run))
		gt.NoError(t, f.Fetch(ctx, "SRR1", dest))

		_, err := os.Stat(filepath.Join(dest, "sra", "SRR1.sra"))
		gt.NoError(t, err)
	})

	t.Run("prefetch failure stops before dump", func(t *testing.T) {
		dest := t.TempDir()
		tk := &fakeToolkit{failOn: "prefetch"}
		f := sratools.New(sratools.Config{}, sratools.WithRunner(tk.run))

		err := f.Fetch(ctx, "SRR404", dest)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagDownload))
		gt.A(t, tk.commands).Length(1)
	})

	t.Run("dump failure", func(t *testing.T) {
		tk := &fakeToolkit{failOn: "fasterq-dump"}
		f := sratools.New(sratools.Config{}, sratools.WithRunner(tk.run))

		err := f.Fetch(ctx, "SRR1", t.TempDir())
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagDownload))
	})

	t.Run("custom commands", func(t *testing.T) {
		var names []string
		runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
			names = append(names, name)
			return nil, nil
		}
		f := sratools.New(sratools.Config{
			PrefetchCommand: "/opt/sra/bin/prefetch",
			DumpCommand:     "fastq-dump",
		}, sratools.WithRunner(runner))

		gt.NoError(t, f.Fetch(ctx, "SRR1", t.TempDir()))
		gt.Equal(t, names, []string{"/opt/sra/bin/prefetch", "fastq-dump"})
	})
}
