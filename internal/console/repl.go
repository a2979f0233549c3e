package console

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	use(name string) bool
	sectionNames() []string
	list(ctx context.Context)
	search(ctx context.Context, term string)
	more(ctx context.Context)
	refresh(ctx context.Context)
	add(ctx context.Context)
	remove(ctx context.Context, id string)
	show(ctx context.Context, id string)
	complete(ctx context.Context, id string)
	decide(ctx context.Context, id string, approve bool)
}

// runREPL starts a read–eval–print loop over the StaffDesk sections.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. A bare section name switches
// sections, same as 'use <name>'. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	  - help             — show available commands
//	  - use <section>    — switch section (clients, teams, employees, tasks, attendance, leave)
//	  - list             — list loaded records
//	  - search <term>    — substring search over loaded records
//	  - more             — load the next page
//	  - refresh          — reload the section from the backend
//	  - add              — create a record (interactive prompts)
//	  - rm <id>          — delete a record
//	  - show <id>        — show a single record
//	  - done <id>        — mark a task done (tasks section)
//	  - approve <id>     — approve a leave request (leave section)
//	  - reject <id>      — reject a leave request (leave section)
//	  - exit | quit      — leave the program
//
// Command handlers print their own errors. This keeps the REPL loop
// resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sd> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = strings.Join(parts[1:], " ")
		}

		switch cmd {
		case "help":
			printlnFn("Sections:", strings.Join(a.sectionNames(), ", "))
			printlnFn("Commands: use <section>, (l)ist, search <term>, more, refresh, add, rm <id>, show <id>, done <id>, approve <id>, reject <id>, exit")

		case "use":
			if !a.use(arg) {
				printlnFn("Unknown section:", arg)
			}

		case "l", "list":
			a.list(ctx)

		case "search":
			a.search(ctx, arg)

		case "more":
			a.more(ctx)

		case "refresh":
			a.refresh(ctx)

		case "add":
			a.add(ctx)

		case "rm":
			if arg == "" {
				printlnFn("Usage: rm <id>")
				continue
			}
			a.remove(ctx, arg)

		case "show":
			if arg == "" {
				printlnFn("Usage: show <id>")
				continue
			}
			a.show(ctx, arg)

		case "done":
			if arg == "" {
				printlnFn("Usage: done <id>")
				continue
			}
			a.complete(ctx, arg)

		case "approve":
			if arg == "" {
				printlnFn("Usage: approve <id>")
				continue
			}
			a.decide(ctx, arg, true)

		case "reject":
			if arg == "" {
				printlnFn("Usage: reject <id>")
				continue
			}
			a.decide(ctx, arg, false)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			// a bare section name is shorthand for 'use <name>'
			if a.use(cmd) {
				a.list(ctx)
				continue
			}
			printlnFn("Unknown command:", cmd)
		}
	}
}
