// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/internal/recommend"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

const replHelp = `Commands:
  fetch                 fetch the next batch of papers
  query <search query>  change the search query (e.g. "cat:cs.AI", "all:transformers")
  papers                list fetched papers with their verdicts
  like <n>              mark paper n as liked        (also: l <n>)
  dislike <n>           mark paper n as disliked     (also: d <n>)
  neutral <n>           mark paper n as neutral      (also: n <n>)
  prefs                 show learned category preferences
  liked                 show liked papers
  recommend             fetch papers from preferred categories
  export [json|yaml]    print the whole session state (default json)
  help                  show this help
  quit                  end the session`

// REPL drives a Session from line-oriented text input. Each command maps
// to one Session handler.
type REPL struct {
	Session *Session
	In      io.Reader
	Out     io.Writer
	Prompt  string
}

// Run reads commands until quit, end of input, or ctx is done. Fetch
// failures are reported and the loop continues. Input is read on a
// separate goroutine so that cancelling ctx ends Run even while it waits
// for a line.
func (r *REPL) Run(ctx context.Context) error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = "> "
	}

	fmt.Fprintf(r.Out, "Paper recommender session %s (query %q). Type \"help\" for commands.\n", r.Session.ID, r.Session.Query())

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		sc := bufio.NewScanner(r.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.Out, prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(r.Out)
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := r.dispatch(ctx, line); done {
			return nil
		}
	}
}

// dispatch runs one command line and reports whether the session should end.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		fmt.Fprintln(r.Out, "Session ended.")
		return true
	case "help", "?":
		fmt.Fprintln(r.Out, replHelp)
	case "fetch", "f":
		r.fetch(ctx)
	case "query":
		if err := r.Session.SetQuery(arg); err != nil {
			fmt.Fprintf(r.Out, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(r.Out, "Query set to %q.\n", arg)
	case "papers", "ls":
		r.papers()
	case "like", "l", "dislike", "d", "neutral", "n":
		r.review(cmd, arg)
	case "prefs", "preferences":
		r.prefs()
	case "liked":
		r.liked()
	case "recommend", "rec":
		recommend.FormatText(r.Session.Recommend(ctx), r.Out)
	case "export":
		r.export(arg)
	default:
		fmt.Fprintf(r.Out, "unknown command %q; type \"help\"\n", cmd)
	}
	return false
}

func (r *REPL) fetch(ctx context.Context) {
	offset := len(r.Session.Papers())
	papers, err := r.Session.FetchNext(ctx)
	if err != nil {
		var ne *fetch.NetworkError
		var pe *fetch.ParseError
		switch {
		case errors.As(err, &ne):
			fmt.Fprintf(r.Out, "fetch failed (network): %v\n", err)
		case errors.As(err, &pe):
			fmt.Fprintf(r.Out, "fetch failed (bad response): %v\n", err)
		default:
			fmt.Fprintf(r.Out, "fetch failed: %v\n", err)
		}
		return
	}
	if len(papers) == 0 {
		fmt.Fprintln(r.Out, "No more papers for this query.")
		return
	}
	fmt.Fprintln(r.Out, "Select papers you like or dislike:")
	for i, p := range papers {
		fetch.WritePaper(r.Out, offset+i+1, p)
	}
}

func (r *REPL) papers() {
	papers := r.Session.Papers()
	if len(papers) == 0 {
		fmt.Fprintln(r.Out, "No papers fetched yet. Use \"fetch\".")
		return
	}
	for i, p := range papers {
		mark := "-"
		if v, ok := r.Session.Verdict(i); ok {
			mark = string(v)
		}
		fmt.Fprintf(r.Out, "%3d  %-8s %s\n", i+1, mark, p.Title)
	}
}

func (r *REPL) review(cmd, arg string) {
	verdict, err := types.ParseVerdict(cmd)
	if err != nil {
		fmt.Fprintf(r.Out, "error: %v\n", err)
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(r.Out, "usage: %s <paper number>\n", cmd)
		return
	}
	if err := r.Session.Review(n-1, verdict); err != nil {
		fmt.Fprintf(r.Out, "error: %v\n", err)
		return
	}
	p, _ := r.Session.Paper(n - 1)
	fmt.Fprintf(r.Out, "Marked [%d] %s as %s.\n", n, p.Title, verdict)
}

func (r *REPL) prefs() {
	if !r.Session.Viewed() {
		fmt.Fprintln(r.Out, "You have not viewed any papers yet.")
		return
	}
	fmt.Fprintln(r.Out, "Your Learned Preferences:")
	for _, pc := range r.Session.Preferences() {
		fmt.Fprintf(r.Out, "Category: %s, Preference Score: %.2f\n", pc.Category, pc.Score)
	}
}

func (r *REPL) liked() {
	liked := r.Session.Liked()
	if len(liked) == 0 {
		fmt.Fprintln(r.Out, "You have not liked any papers yet.")
		return
	}
	fmt.Fprintln(r.Out, "Your Liked Papers:")
	for _, p := range liked {
		fmt.Fprintf(r.Out, "- %s by %s\n  %s\n", p.Title, strings.Join(p.Authors, ", "), p.Link)
	}
}

func (r *REPL) export(format string) {
	var err error
	switch strings.ToLower(format) {
	case "", "json":
		err = fetch.WriteJSON(r.Out, r.Session.Snapshot())
	case "yaml", "yml":
		err = fetch.WriteYAML(r.Out, r.Session.Snapshot())
	default:
		fmt.Fprintf(r.Out, "usage: export [json|yaml]\n")
		return
	}
	if err != nil {
		fmt.Fprintf(r.Out, "error: %v\n", err)
	}
}
