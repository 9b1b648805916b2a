package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/urfave/cli/v3"
)

const shellHelp = `Type a query to search (operators: -word +word "phrase" OR).
An empty line shows recent results. Commands:
  :next / :prev           change page
  :tag a,b                only show results tagged a or b
  :notags                 clear the tag filter
  :entity KEY on|off      toggle projects, areas, categories, tables, processes
  :recent :most-used :tagged
  :history :clear-history
  :help :quit`

// ShellCommand creates the shell command
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive search session",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runShell(ctx, stdin(c), stdout(c), c.String("config"))
		},
	}
}

// runShell drives a search.Session from line input until :quit or EOF.
// Views are printed as they arrive, so typing quickly only renders the
// last query.
func runShell(ctx context.Context, in io.Reader, w io.Writer, configPath string) error {
	cfg, store, err := openStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	sess := search.NewSession(ctx, store, search.OptionsFromConfig(cfg.Search))
	out := &syncWriter{w: w}

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for view := range sess.Updates() {
			out.print(func(w io.Writer) { printView(w, view) })
		}
	}()

	out.print(func(w io.Writer) { fmt.Fprintln(w, shellHelp) })
	sess.Refresh()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := shellDispatch(sess, out, scanner.Text())
		if err != nil {
			out.print(func(w io.Writer) { fmt.Fprintln(w, errorStyle.Render(err.Error())) })
		}
		if quit {
			break
		}
	}

	sess.Close()
	<-printed
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// shellDispatch applies one input line to sess. It reports whether the
// shell should exit.
func shellDispatch(sess *search.Session, out *syncWriter, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		sess.SetQuery(line)
		return false, nil
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return true, nil
	case "n", "next":
		sess.NextPage()
	case "p", "prev":
		sess.PrevPage()
	case "tag", "tags":
		tags := splitArgs(arg)
		if len(tags) == 0 {
			return false, fmt.Errorf("usage: :tag a,b")
		}
		sess.SetTagFilter(tags)
	case "notags":
		sess.ClearTagFilters()
	case "entity":
		key, state, _ := strings.Cut(arg, " ")
		entity, err := facets.ParseEntity(key)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(state)) {
		case "on", "":
			sess.SetEntityFilter(entity, true)
		case "off":
			sess.SetEntityFilter(entity, false)
		default:
			return false, fmt.Errorf("usage: :entity %s on|off", entity)
		}
	case "recent", "most-used", "most_used", "tagged":
		kind, err := search.ParseSeedKind(name)
		if err != nil {
			return false, err
		}
		sess.ShowSeed(kind)
	case "history":
		entries := sess.History()
		out.print(func(w io.Writer) {
			if len(entries) == 0 {
				fmt.Fprintln(w, noDataStyle.Render("No history yet"))
			}
			for i, q := range entries {
				fmt.Fprintf(w, "%3d. %s\n", i+1, q)
			}
		})
	case "clear-history":
		sess.ClearHistory()
	case "h", "help":
		out.print(func(w io.Writer) { fmt.Fprintln(w, shellHelp) })
	default:
		return false, fmt.Errorf("unknown command :%s (try :help)", name)
	}
	return false, nil
}

func printView(w io.Writer, view search.View) {
	if view.Err != nil {
		fmt.Fprintln(w, errorStyle.Render("search failed: "+view.Error))
	}
	printResults(w, &view.Results)
}

func splitArgs(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// syncWriter serializes output from the input loop and the view printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) print(fn func(io.Writer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.w)
}
