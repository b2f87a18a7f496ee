package sratools

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/klauspost/pgzip"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

const (
	DefaultPrefetchCommand = "prefetch"
	DefaultDumpCommand     = "fasterq-dump"

	stageDirName = ".prefetch"
	sraDirName   = "sra"
	sraExt       = ".sra"
	fastqExt     = ".fastq"
	gzipExt      = ".gz"

	// keep only the tail of tool output in errors
	maxOutputInError = 4096
)

// DefaultDumpArgs splits paired-end reads into _1/_2 files
var DefaultDumpArgs = []string{"--split-files"}

// Runner executes an external command and returns its combined output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command as a child process and waits for it to exit
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Config holds SRA Toolkit invocation settings. Args are passed through to the
// tools unchanged, e.g. --threads for fasterq-dump.
type Config struct {
	PrefetchCommand string
	PrefetchArgs    []string
	DumpCommand     string
	DumpArgs        []string
	Compress        bool // gzip FASTQ output like pigz -1
	KeepSRA         bool // keep .sra files under <dest>/sra/
}

type fetcher struct {
	cfg    Config
	runner Runner
}

// Option configures the fetcher
type Option func(*fetcher)

// WithRunner replaces the command runner
func WithRunner(r Runner) Option {
	return func(f *fetcher) {
		f.runner = r
	}
}

// New creates a Fetcher that runs prefetch followed by a dump tool
func New(cfg Config, opts ...Option) interfaces.Fetcher {
	if cfg.PrefetchCommand == "" {
		cfg.PrefetchCommand = DefaultPrefetchCommand
	}
	if cfg.DumpCommand == "" {
		cfg.DumpCommand = DefaultDumpCommand
	}
	if len(cfg.DumpArgs) == 0 {
		cfg.DumpArgs = slices.Clone(DefaultDumpArgs)
	}

	f := &fetcher{
		cfg:    cfg,
		runner: ExecRunner,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads run into a staging directory under destDir, converts it to
// FASTQ in destDir and removes the staging data
func (f *fetcher) Fetch(ctx context.Context, run model.RunAccession, destDir string) error {
	logger := ctxlog.From(ctx)

	stageDir := filepath.Join(destDir, stageDirName)
	runStage := filepath.Join(stageDir, string(run))
	defer func() {
		if err := os.RemoveAll(runStage); err != nil {
			logger.Warn("Failed to remove staging directory", "dir", runStage, "error", err)
		}
		_ = os.Remove(stageDir) // only succeeds when empty
	}()

	prefetchArgs := append(slices.Clone(f.cfg.PrefetchArgs), "--output-directory", stageDir, string(run))
	if err := f.exec(ctx, run, f.cfg.PrefetchCommand, prefetchArgs...); err != nil {
		return err
	}

	dumpArgs := append(slices.Clone(f.cfg.DumpArgs), "--outdir", destDir, runStage)
	if err := f.exec(ctx, run, f.cfg.DumpCommand, dumpArgs...); err != nil {
		return err
	}

	if f.cfg.Compress {
		if err := compressRun(ctx, run, destDir); err != nil {
			return err
		}
	}

	if f.cfg.KeepSRA {
		if err := keepSRA(runStage, filepath.Join(destDir, sraDirName)); err != nil {
			return err
		}
	}

	return nil
}

func (f *fetcher) exec(ctx context.Context, run model.RunAccession, name string, args ...string) error {
	logger := ctxlog.From(ctx)
	logger.Debug("Running command", "run", run, "command", name, "args", args)

	out, err := f.runner(ctx, name, args...)
	if err != nil {
		return goerr.Wrap(err, "command failed",
			goerr.V("run", run),
			goerr.V("command", name),
			goerr.V("args", args),
			goerr.V("output", tail(out, maxOutputInError)),
			goerr.T(types.ErrTagDownload),
		)
	}
	return nil
}

// outputs returns FASTQ files written for run: <run>.fastq and <run>_N.fastq
func outputs(run model.RunAccession, dir string) ([]string, error) {
	single := filepath.Join(dir, string(run)+fastqExt)
	split, err := filepath.Glob(filepath.Join(dir, string(run)+"_*"+fastqExt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list FASTQ files")
	}

	files := split
	if _, err := os.Stat(single); err == nil {
		files = append([]string{single}, files...)
	}
	return files, nil
}

func compressRun(ctx context.Context, run model.RunAccession, dir string) error {
	logger := ctxlog.From(ctx)

	files, err := outputs(run, dir)
	if err != nil {
		return goerr.Wrap(err, "failed to find FASTQ output", goerr.V("run", run), goerr.T(types.ErrTagDownload))
	}
	if len(files) == 0 {
		logger.Warn("No FASTQ files found to compress", "run", run, "dir", dir)
		return nil
	}

	for _, src := range files {
		if err := compressFile(src); err != nil {
			return goerr.Wrap(err, "failed to compress FASTQ",
				goerr.V("run", run),
				goerr.V("file", src),
				goerr.T(types.ErrTagDownload),
			)
		}
		logger.Debug("Compressed FASTQ", "run", run, "file", src+gzipExt)
	}

	return nil
}

func compressFile(src string) error {
	in, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open file")
	}
	defer in.Close()

	dst := src + gzipExt
	tmp := dst + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return goerr.Wrap(err, "failed to create file", goerr.V("path", tmp))
	}
	defer func() {
		_ = os.Remove(tmp) // no-op after rename
	}()

	zw, err := pgzip.NewWriterLevel(out, pgzip.BestSpeed)
	if err != nil {
		_ = out.Close()
		return goerr.Wrap(err, "failed to create gzip writer")
	}
	zw.Name = filepath.Base(src)

	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return goerr.Wrap(err, "failed to compress")
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return goerr.Wrap(err, "failed to flush gzip stream")
	}
	if err := out.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, dst); err != nil {
		return goerr.Wrap(err, "failed to rename file", goerr.V("path", dst))
	}

	return os.Remove(src)
}

func keepSRA(stage, sraDir string) error {
	files, err := filepath.Glob(filepath.Join(stage, "*"+sraExt))
	if err != nil {
		return goerr.Wrap(err, "failed to list SRA files")
	}
	if len(files) == 0 {
		return nil
	}

	if err := os.MkdirAll(sraDir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create SRA directory", goerr.V("dir", sraDir), goerr.T(types.ErrTagIO))
	}
	for _, src := range files {
		dst := filepath.Join(sraDir, filepath.Base(src))
		if err := os.Rename(src, dst); err != nil {
			return goerr.Wrap(err, "failed to move SRA file", goerr.V("src", src), goerr.V("dst", dst), goerr.T(types.ErrTagIO))
		}
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
