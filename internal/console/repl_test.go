package console

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	active string
	calls  []string
}

func (f *fakeExec) use(name string) bool {
	for _, s := range f.sectionNames() {
		if s == name {
			f.active = name
			f.calls = append(f.calls, "use:"+name)
			return true
		}
	}
	return false
}

func (f *fakeExec) sectionNames() []string {
	return []string{"clients", "tasks", "leave"}
}

func (f *fakeExec) list(ctx context.Context) { f.calls = append(f.calls, "list") }
func (f *fakeExec) search(ctx context.Context, term string) {
	f.calls = append(f.calls, "search:"+term)
}
func (f *fakeExec) more(ctx context.Context)    { f.calls = append(f.calls, "more") }
func (f *fakeExec) refresh(ctx context.Context) { f.calls = append(f.calls, "refresh") }
func (f *fakeExec) add(ctx context.Context)     { f.calls = append(f.calls, "add") }
func (f *fakeExec) remove(ctx context.Context, id string) {
	f.calls = append(f.calls, "rm:"+id)
}
func (f *fakeExec) show(ctx context.Context, id string) {
	f.calls = append(f.calls, "show:"+id)
}
func (f *fakeExec) complete(ctx context.Context, id string) {
	f.calls = append(f.calls, "done:"+id)
}
func (f *fakeExec) decide(ctx context.Context, id string, approve bool) {
	if approve {
		f.calls = append(f.calls, "approve:"+id)
	} else {
		f.calls = append(f.calls, "reject:"+id)
	}
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runWith(t *testing.T, f *fakeExec, input ...string) {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(strings.Join(input, "\n") + "\n"))
	runREPL(context.Background(), f, func() string { return f.active }, scanner)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)
	f := &fakeExec{active: "clients"}

	runWith(t, f,
		"refresh",
		"list",
		"search acme corp",
		"more",
		"add",
		"rm 42",
		"show 42",
		"exit",
	)

	assert.Equal(t, []string{
		"refresh", "list", "search:acme corp", "more", "add", "rm:42", "show:42",
	}, f.calls)
}

func TestRunREPL_SectionSwitching(t *testing.T) {
	lines := silencePrintln(t)
	f := &fakeExec{active: "clients"}

	runWith(t, f,
		"use tasks",
		"done 7",
		"leave", // bare section name
		"approve 9",
		"reject 10",
		"use nowhere",
		"quit",
	)

	assert.Equal(t, []string{
		"use:tasks", "done:7", "use:leave", "list", "approve:9", "reject:10",
	}, f.calls)
	assert.Contains(t, *lines, "Unknown section: nowhere")
}

func TestRunREPL_UnknownAndMissingArgs(t *testing.T) {
	lines := silencePrintln(t)
	f := &fakeExec{active: "clients"}

	runWith(t, f,
		"",
		"frobnicate",
		"rm",
		"show",
		"done",
		"approve",
		"reject",
		"exit",
	)

	assert.Empty(t, f.calls)
	assert.Contains(t, *lines, "Unknown command: frobnicate")
	assert.Contains(t, *lines, "Usage: rm <id>")
	assert.Contains(t, *lines, "Usage: done <id>")
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	silencePrintln(t)
	f := &fakeExec{active: "clients"}

	scanner := bufio.NewScanner(strings.NewReader("list\n"))
	runREPL(context.Background(), f, func() string { return f.active }, scanner)

	assert.Equal(t, []string{"list"}, f.calls)
}
