package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
	"github.com/zhouzirui/z-chat/backend/internal/widget"
)

// runPlain drives the widget from lines of in and prints every new message
// to out. It waits for each reply before sending the next line and returns
// on EOF or when ctx is cancelled.
func runPlain(ctx context.Context, backend widget.Backend, logger *zap.Logger, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := widget.New(widget.WithLogger(logger))

	idle := make(chan struct{}, 1)
	printed, locked := 0, false
	w.Subscribe(func(s widget.State) {
		for _, msg := range s.Messages[printed:] {
			printMessage(out, msg)
		}
		printed = len(s.Messages)

		if locked && !s.InputLocked {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
		locked = s.InputLocked
	})

	d := widget.NewDriver(w, backend)
	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	err := feed(ctx, d, idle, in)
	cancel()
	<-runErr

	if errors.Is(err, context.Canceled) || errors.Is(err, widget.ErrStopped) {
		return nil
	}
	return err
}

func feed(ctx context.Context, d *widget.Driver, idle <-chan struct{}, in io.Reader) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	if err := waitIdle(ctx, idle); err != nil {
		return err
	}

	for line := range readLines(ctx, in) {
		// Blank lines are dropped by the widget without a reply to wait for.
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := d.Send(ctx, line); err != nil {
			return err
		}
		if err := waitIdle(ctx, idle); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// readLines streams lines of in until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func waitIdle(ctx context.Context, idle <-chan struct{}) error {
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printMessage(out io.Writer, msg chat.Message) {
	who := "you"
	if msg.IsBot {
		who = "bot"
	}
	for _, line := range strings.Split(msg.Text, "\n") {
		fmt.Fprintf(out, "%s> %s\n", who, line)
	}
}
