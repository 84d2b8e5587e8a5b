package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/internal/interaction"
)

var (
	configFlag = flag.String("config", config.BaseConfigFile, "Path to the base config file")
	jsonFlag   = flag.Bool("json", false, "Print results as JSON")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadFile(*configFlag)
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		infra.Logger.Warn("history backend unavailable", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := interaction.New(
		infra.Client,
		infra.History,
		infra.Logger,
		interaction.WithTimeLayout(cfg.History.TimeFormat),
	)
	ctrl.Initialize(ctx)

	c := &cli{
		ctrl:   ctrl,
		prober: infra.Client,
		out:    os.Stdout,
		json:   *jsonFlag,
		clock:  time.Now,
	}
	return c.dispatch(ctx, args)
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: veritas [flags] <command> [args]

commands:
  check <text>   analyze text ("-" reads standard input)
  example <n>    analyze catalog headline n
  examples       list catalog headlines
  history        show recent analyses, newest first
  clear          delete the history
  status         check the classification service

flags:
`)
	flag.PrintDefaults()
}
