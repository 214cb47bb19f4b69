package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"surveylens/internal/core/version"
	"surveylens/internal/modkit"
	"surveylens/internal/platform/config"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"

	pipelinedom "surveylens/internal/services/pipeline/domain"
	pipelinemod "surveylens/internal/services/pipeline/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := parseFlags(flag.NewFlagSet("surveylens", flag.ContinueOnError), args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if cfg.Version {
		fmt.Fprintln(stdout, version.Info("surveylens"))
		return 0
	}

	// Pass CLI flags into CORE_* so every module reads its own config
	for k, v := range cfg.Env() {
		mustSetEnv(k, v)
	}

	logger.Init(logger.FromEnv())
	l := logger.Named("surveylens")
	bi := version.Info("surveylens")
	l.Debug().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	deps := modkit.Deps{
		Cfg:   root,
		Log:   *l,
		Fetch: fetch.NewFromConfig(fetch.FromConfig(root)),
	}

	pm, err := assemble(deps)
	if err != nil {
		l.Error().Err(err).Str("field", fieldOf(err)).Msg("configuration rejected")
		return perr.ExitCode(err)
	}
	rep, err := pm.Ports().(pipelinedom.Ports).Runner.Run(ctx)
	if err != nil {
		l.Error().Err(err).Str("run_id", rep.RunID).Str("code", perr.CodeOf(err).String()).Msg("run failed")
		return perr.ExitCode(err)
	}
	for _, p := range rep.Artifacts {
		fmt.Fprintln(stdout, p)
	}
	return 0
}

// assemble builds the pipeline; enum config accessors panic on values outside their set
// and that panic is reported as a validation error. Runtime faults are not recovered
func assemble(deps modkit.Deps) (m *pipelinemod.Module, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, fault := r.(runtime.Error); fault {
			panic(r)
		}
		err = perr.WithOp(perr.Validationf("invalid configuration: %v", r), "surveylens.assemble")
	}()
	return pipelinemod.Assemble(deps, pipelinemod.Options{})
}

func fieldOf(err error) string {
	if e, ok := perr.As(err); ok {
		return e.Field()
	}
	return ""
}
