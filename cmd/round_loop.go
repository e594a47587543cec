package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/lingoz/internal/matching"
	"github.com/abhisek/lingoz/internal/ui/components"
)

// playRound drives a built round from line input until it completes, the
// player quits or input ends. finished reports whether the completion
// callback ran.
func playRound(ctx context.Context, e *matching.Engine, in io.Reader, out io.Writer, plain bool) (summary matching.Summary, finished bool, err error) {
	e.OnComplete = func(s matching.Summary) {
		summary = s
		finished = true
	}

	done := make(chan struct{})
	defer close(done)

	sched := matching.NewLoopScheduler()
	defer sched.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	show := func() {
		fmt.Fprintln(out, components.Board{Left: e.Left(), Right: e.Right(), Plain: plain}.View())
		fmt.Fprintf(out, "matched %d/%d, attempts %d\n", e.MatchedCount(), e.TotalPairs(), e.Attempts())
	}
	show()

	for !finished {
		select {
		case <-ctx.Done():
			return summary, false, nil

		case f := <-sched.C():
			f()
			if !finished {
				show()
			}

		case line, ok := <-lines:
			if !ok {
				// Input ended; wait out a pending completion only.
				if !e.IsFinished() {
					return summary, false, nil
				}
				lines = nil
				continue
			}
			side, idx, quit, perr := parseTap(line)
			switch {
			case quit:
				return summary, false, nil
			case perr != nil:
				fmt.Fprintln(out, perr)
				continue
			}

			var actions []matching.Deferred
			if side == matching.SideLeft {
				actions = e.TapLeft(idx)
			} else {
				actions = e.TapRight(idx)
			}
			matching.Schedule(sched, e, actions)
			show()
		}
	}
	return summary, true, nil
}

// parseTap reads "l N", "r N" or "q".
func parseTap(line string) (side matching.Side, idx int, quit bool, err error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 1 && (fields[0] == "q" || fields[0] == "quit") {
		return 0, 0, true, nil
	}
	if len(fields) != 2 {
		return 0, 0, false, fmt.Errorf("type `l N`, `r N` or `q`")
	}
	switch fields[0] {
	case "l", "left":
		side = matching.SideLeft
	case "r", "right":
		side = matching.SideRight
	default:
		return 0, 0, false, fmt.Errorf("unknown side %q", fields[0])
	}
	idx, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid card number %q", fields[1])
	}
	return side, idx, false, nil
}
