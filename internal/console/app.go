// Package console is the interactive terminal frontend for the StaffDesk
// collections. Every command routes through the optimistic stores, so the
// listing reacts immediately and repairs itself when the backend refuses a
// change.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdesk/staffdesk/internal/collection"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/logging"
	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/remote/memory"
	"github.com/staffdesk/staffdesk/internal/remote/postgres"
)

type App struct {
	cfg    *config.Config
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	clients    *collection.Store[models.Client]
	teams      *collection.Store[models.Team]
	employees  *collection.Store[models.Employee]
	tasks      *collection.Store[models.Task]
	attendance *collection.Store[models.AttendanceRecord]
	leave      *collection.Store[models.LeaveRequest]

	sections map[string]section
	order    []string
	active   string

	pool        *pgxpool.Pool
	unsubscribe []func()
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		cfg:    cfg,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if cfg.Offline {
		a.clients = collection.New[models.Client](memory.New[models.Client](), log.With("collection", "clients"))
		a.teams = collection.New[models.Team](memory.New[models.Team](), log.With("collection", "teams"))
		a.employees = collection.New[models.Employee](memory.New[models.Employee](), log.With("collection", "employees"))
		a.tasks = collection.New[models.Task](memory.New[models.Task](), log.With("collection", "tasks"))
		a.attendance = collection.New[models.AttendanceRecord](memory.New[models.AttendanceRecord](), log.With("collection", "attendance"))
		a.leave = collection.New[models.LeaveRequest](memory.New[models.LeaveRequest](), log.With("collection", "leave"))
	} else {
		if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("prepare database: %w", err)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		a.clients = collection.New[models.Client](postgres.New[models.Client](pool, "clients"), log.With("collection", "clients"))
		a.teams = collection.New[models.Team](postgres.New[models.Team](pool, "teams"), log.With("collection", "teams"))
		a.employees = collection.New[models.Employee](postgres.New[models.Employee](pool, "employees"), log.With("collection", "employees"))
		a.tasks = collection.New[models.Task](postgres.New[models.Task](pool, "tasks"), log.With("collection", "tasks"))
		a.attendance = collection.New[models.AttendanceRecord](postgres.New[models.AttendanceRecord](pool, "attendance"), log.With("collection", "attendance"))
		a.leave = collection.New[models.LeaveRequest](postgres.New[models.LeaveRequest](pool, "leave"), log.With("collection", "leave"))
	}

	ps := cfg.PageSize
	a.sections = map[string]section{
		"clients":    newSection(a.clients, ps, models.Client.SearchFields, formatClient),
		"teams":      newSection(a.teams, ps, models.Team.SearchFields, formatTeam),
		"employees":  newSection(a.employees, ps, models.Employee.SearchFields, formatEmployee),
		"tasks":      newSection(a.tasks, ps, models.Task.SearchFields, formatTask),
		"attendance": newSection(a.attendance, ps, models.AttendanceRecord.SearchFields, formatAttendance),
		"leave":      newSection(a.leave, ps, models.LeaveRequest.SearchFields, formatLeave),
	}
	a.order = []string{"clients", "teams", "employees", "tasks", "attendance", "leave"}
	a.active = "clients"

	a.unsubscribe = []func(){
		watchStore(ctx, log, "clients", a.clients),
		watchStore(ctx, log, "teams", a.teams),
		watchStore(ctx, log, "employees", a.employees),
		watchStore(ctx, log, "tasks", a.tasks),
		watchStore(ctx, log, "attendance", a.attendance),
		watchStore(ctx, log, "leave", a.leave),
	}

	return a, nil
}

// watchStore logs settled failures as they land in the store's error slot.
// By the time the signal arrives the local state is already repaired, so a
// warning is all that is needed.
func watchStore[T collection.Entity[T]](ctx context.Context, log logging.Logger, name string, store *collection.Store[T]) func() {
	ch, cancel := store.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				if err := store.State().Err; err != nil {
					log.Warn(ctx, "collection out of sync", "collection", name, "err", err)
				}
			}
		}
	}()
	return cancel
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to StaffDesk (type 'help' for commands)")
	a.refresh(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	for _, s := range a.sections {
		s.close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *App) status() string {
	s := a.sections[a.active]
	out := fmt.Sprintf("%s:%d", a.active, s.itemCount())
	if s.syncing() {
		out += " syncing"
	}
	if s.lastErr() != nil {
		out += " !"
	}
	return out
}

// opCtx bounds a single store operation.
func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.OpTimeout)
}

func (a *App) use(name string) bool {
	if _, ok := a.sections[name]; !ok {
		return false
	}
	a.active = name
	return true
}

func (a *App) sectionNames() []string { return a.order }

func (a *App) output() io.Writer { return a.out }

func (a *App) list(ctx context.Context) { a.sections[a.active].list(ctx, a.out) }

func (a *App) search(ctx context.Context, term string) {
	a.sections[a.active].search(ctx, term, a.out)
}

func (a *App) more(ctx context.Context) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	a.sections[a.active].more(opCtx, a.out)
}

func (a *App) refresh(ctx context.Context) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	a.sections[a.active].refresh(opCtx, a.out)
	a.list(ctx)
}

func (a *App) remove(ctx context.Context, id string) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	a.sections[a.active].remove(opCtx, id, a.out)
}

func (a *App) show(ctx context.Context, id string) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	a.sections[a.active].show(opCtx, id, a.out)
}
