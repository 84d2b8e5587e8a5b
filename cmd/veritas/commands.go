package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/JaimeStill/veritas/internal/interaction"
)

var errUsage = errors.New("invalid usage")

type cli struct {
	ctrl   *interaction.Controller
	prober interaction.Prober
	out    io.Writer
	in     io.Reader
	json   bool
	clock  func() time.Time
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "check":
		return c.check(ctx, rest)
	case "example":
		return c.example(ctx, rest)
	case "examples":
		return c.examples()
	case "history":
		return c.history()
	case "clear":
		return c.clear(ctx)
	case "status":
		return c.status(ctx)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (c *cli) check(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "-" {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		text = string(data)
	}
	return c.analyze(ctx, text)
}

func (c *cli) example(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: example takes one number", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	if err := c.ctrl.SelectExample(n - 1); err != nil {
		return err
	}
	return c.analyze(ctx, c.ctrl.State().InputText)
}

func (c *cli) analyze(ctx context.Context, text string) error {
	result, err := c.ctrl.Submit(ctx, text)
	if err != nil {
		var ie *interaction.Error
		if errors.As(err, &ie) {
			return errors.New(ie.Message)
		}
		return err
	}

	if c.json {
		return c.encode(result)
	}

	fmt.Fprintf(c.out, "Result: %s\n", result.Label)
	fmt.Fprintf(c.out, "Confidence: %d%%\n", result.Percent())
	fmt.Fprintf(c.out, "Input text analyzed: %s\n", result.InputText)
	return nil
}

func (c *cli) examples() error {
	examples := interaction.Examples()
	if c.json {
		return c.encode(examples)
	}
	for i, ex := range examples {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, ex)
	}
	return nil
}

func (c *cli) history() error {
	log := c.ctrl.History()
	if c.json {
		return c.encode(log)
	}
	if len(log) == 0 {
		fmt.Fprintln(c.out, "No checks yet. Analyze some news to see history.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tLABEL\tCONFIDENCE\tTEXT")
	for _, e := range log {
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\n", e.Time, e.Label, e.Percent(), truncate(e.Text, 60))
	}
	return tw.Flush()
}

func (c *cli) clear(ctx context.Context) error {
	if err := c.ctrl.ClearHistory(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "History cleared.")
	return nil
}

func (c *cli) status(ctx context.Context) error {
	start := c.clock()
	err := c.prober.Health(ctx)
	elapsed := c.clock().Sub(start)

	status := interaction.ServiceStatus{BaseURL: c.prober.BaseURL(), Healthy: err == nil}
	if err != nil {
		status.Error = err.Error()
	}

	if c.json {
		if encErr := c.encode(status); encErr != nil {
			return encErr
		}
	} else if err == nil {
		fmt.Fprintf(c.out, "Classification service at %s is running (%s).\n", status.BaseURL, elapsed.Round(time.Millisecond))
	}

	if err != nil {
		return fmt.Errorf("classification service at %s is not reachable: %w", status.BaseURL, err)
	}
	return nil
}

func (c *cli) encode(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
