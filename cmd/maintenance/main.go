// Command maintenance runs the media reconcile jobs and account bootstrap.
//
// Usage:
//
//	maintenance fix-images [-enqueue]
//	maintenance fix-pdfs [-enqueue]
//	maintenance create-books [-enqueue]
//	maintenance create-superuser [-username admin] [-email admin@freewriter.com] [-password ...]
//
// Jobs run in-process by default. With -enqueue they are handed to the worker as unique
// tasks instead. Either way a job refuses to start while another job holds its media pool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/matching"
	"freewriter/internal/domains/user"
	"freewriter/internal/infrastructure/queue"
	"freewriter/internal/shared"
	"freewriter/internal/shared/utils"
	"freewriter/pkg/container"
	"freewriter/pkg/logger"
)

const cmdCreateSuperuser = "create-superuser"

// jobTasks maps job subcommands to their worker task types.
var jobTasks = map[string]string{
	matching.JobFixImages:   shared.TypeFixImages,
	matching.JobFixPDFs:     shared.TypeFixPDFs,
	matching.JobCreateBooks: shared.TypeCreateBooks,
}

type command struct {
	name      string
	enqueue   bool
	superuser user.SuperuserRequest
}

func main() {
	_ = godotenv.Load()
	logger.Init(utils.GetEnvVariable("APP_ENV", "development"), utils.GetEnvVariable("LOG_LEVEL", "info"))

	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}

	err = run(ctx, c, cmd, os.Stdout)
	c.Cleanup()
	if err != nil {
		log.Error().Err(err).Str("command", cmd.name).Msg("Maintenance command failed")
		os.Exit(1)
	}
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New("command required")
	}

	cmd := command{name: args[0]}
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch {
	case cmd.name == cmdCreateSuperuser:
		fs.StringVar(&cmd.superuser.Username, "username", "", "superuser name (default "+user.DefaultSuperuserName+")")
		fs.StringVar(&cmd.superuser.Email, "email", "", "superuser e-mail (default "+user.DefaultSuperuserEmail+")")
		fs.StringVar(&cmd.superuser.Password, "password", "", "superuser password")
	case jobTasks[cmd.name] != "":
		fs.BoolVar(&cmd.enqueue, "enqueue", false, "hand the job to the worker instead of running it here")
	default:
		return command{}, fmt.Errorf("unknown command %q", cmd.name)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return command{}, fmt.Errorf("%s: %w", cmd.name, err)
	}
	if fs.NArg() > 0 {
		return command{}, fmt.Errorf("%s: unexpected arguments %v", cmd.name, fs.Args())
	}
	return cmd, nil
}

func run(ctx context.Context, c *container.Container, cmd command, out io.Writer) error {
	switch {
	case cmd.name == cmdCreateSuperuser:
		return createSuperuser(ctx, c.UserService, cmd.superuser, out)
	case cmd.enqueue:
		return enqueueJob(ctx, c.Queue, cmd.name, out)
	default:
		return runJob(ctx, c.MatchingService, cmd.name, out)
	}
}

// ========================================
// COMMANDS
// ========================================

func runJob(ctx context.Context, svc matching.Service, name string, out io.Writer) error {
	var (
		report *matching.Report
		err    error
	)
	switch name {
	case matching.JobFixImages:
		report, err = svc.FixImages(ctx)
	case matching.JobFixPDFs:
		report, err = svc.FixPDFs(ctx)
	case matching.JobCreateBooks:
		report, err = svc.CreateBooksFromImages(ctx)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func enqueueJob(ctx context.Context, enqueuer queue.Enqueuer, name string, out io.Writer) error {
	taskType := jobTasks[name]
	err := enqueuer.Enqueue(ctx, taskType, queue.NewMaintenancePayload(taskType), queue.MaintenanceOptions()...)
	if errors.Is(err, queue.ErrDuplicateTask) {
		fmt.Fprintf(out, "%s is already queued or running\n", name)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s queued\n", name)
	return nil
}

func createSuperuser(ctx context.Context, svc user.Service, req user.SuperuserRequest, out io.Writer) error {
	created, err := svc.CreateSuperuser(ctx, req)
	if err != nil {
		return err
	}

	req.SetDefaults()
	if created {
		fmt.Fprintf(out, "Superuser %q created\n", req.Username)
	} else {
		fmt.Fprintf(out, "Superuser %q already exists\n", req.Username)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  maintenance fix-images [-enqueue]      attach matched covers to books without one")
	fmt.Fprintln(w, "  maintenance fix-pdfs [-enqueue]        attach matched PDFs or the fallback link")
	fmt.Fprintln(w, "  maintenance create-books [-enqueue]    create one book per new image in MEDIA_IMAGE_DIR")
	fmt.Fprintln(w, "  maintenance create-superuser [-username name] [-email addr] [-password pw]")
}
