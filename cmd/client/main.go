// Command client is a small command-line front end for the note server's
// REST API, built on internal/adapter.
//
//	ADAPTER_BASE_URL=http://localhost:8080 ADAPTER_TOKEN=... client list
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

const usage = `usage: client [flags] <command> [args]

commands:
  list                          notes you own or collaborate on
  get     <note-id>
  create  <title> <description> <body>
  rename  <note-id> <title> [version]
  pin     <note-id>             toggle the pin flag
  delete  <note-id>             delete an owned note or leave a shared one
  invite  <note-id> <email>
  attach  <note-id> <image-file>
  detach  <note-id>
  me
`

var errUsage = errors.New("invalid arguments")

func main() {
	timeout := flag.Duration("timeout", 0, "request timeout (overrides ADAPTER_REQUEST_TIMEOUT)")
	token := flag.String("token", "", "bearer token (overrides ADAPTER_TOKEN)")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	log := logger.NewLogger("note-client", "warn")

	cfg, err := config.GetAdapterConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}
	if *token != "" {
		cfg.Token = *token
	}

	client, err := adapter.NewHTTPNotesClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating client")
	}
	client.SetToken(cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := run(ctx, client, flag.Args())
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

func run(ctx context.Context, client adapter.NotesClient, args []string) (any, error) {
	if len(args) == 0 {
		return nil, errUsage
	}

	command, args := args[0], args[1:]
	need := func(n int) error {
		if len(args) < n {
			return errUsage
		}
		return nil
	}

	switch command {
	case "list":
		return client.ListMine(ctx)
	case "get":
		if err := need(1); err != nil {
			return nil, err
		}
		return client.GetNote(ctx, args[0])
	case "create":
		if err := need(3); err != nil {
			return nil, err
		}
		return client.CreateNote(ctx, models.Note{Title: args[0], Description: args[1], Body: args[2]})
	case "rename":
		if err := need(2); err != nil {
			return nil, err
		}
		update := models.NoteUpdate{NoteID: args[0], Title: &args[1]}
		if len(args) > 2 {
			var version int64
			if _, err := fmt.Sscan(args[2], &version); err != nil {
				return nil, fmt.Errorf("%w: version must be a number", errUsage)
			}
			update.ExpectedVersion = &version
		}
		return client.UpdateNote(ctx, update)
	case "pin":
		if err := need(1); err != nil {
			return nil, err
		}
		return client.TogglePin(ctx, args[0])
	case "delete":
		if err := need(1); err != nil {
			return nil, err
		}
		result, err := client.DeleteNote(ctx, args[0])
		return models.DeleteResponse{Result: result}, err
	case "invite":
		if err := need(2); err != nil {
			return nil, err
		}
		collaborators, err := client.Invite(ctx, args[0], args[1])
		return models.InviteResponse{Collaborators: collaborators}, err
	case "attach":
		if err := need(2); err != nil {
			return nil, err
		}
		file, err := os.Open(args[1])
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return client.AttachImage(ctx, args[0], filepath.Base(args[1]), file)
	case "detach":
		if err := need(1); err != nil {
			return nil, err
		}
		return client.DeleteImage(ctx, args[0])
	case "me":
		return client.Me(ctx)
	default:
		return nil, errUsage
	}
}
