package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"

	kpg "github.com/opst/vettracker/pkg/domain/vettracker/db/postgres"
	"github.com/opst/vettracker/pkg/utils/try"
	"github.com/opst/vettracker/schema"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Schema string `flag:"schema" help:"The path to the schema repository directory. Embedded schema is used if empty."`
}

const ARG_SCHEMA_DEST = "ARG_SCHEMA_DEST"

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		if p, err := strconv.Atoi(sp); err == nil {
			port = p
		}
	}

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		Flag{
			Host:     os.Getenv("DB_HOST"),
			Port:     port,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),
			Schema:   os.Getenv("VETTRACKER_SCHEMA"),
		},
		flarc.Args{
			{
				Name: ARG_SCHEMA_DEST, Help: "The schema files are copied to this directory.",
				Required: false, Repeatable: false,
			},
		},
		func(ctx context.Context, c flarc.Commandline[Flag], a []any) error {
			flags := c.Flags()

			repo := schema.Postgres()
			if flags.Schema != "" {
				repo = os.DirFS(flags.Schema)
			}

			if dest := c.Args()[ARG_SCHEMA_DEST]; len(dest) != 0 {
				logger.Println("copying schema files...")
				if err := os.CopyFS(dest[0], repo); err != nil {
					return err
				}
			}

			db, err := kpg.New(ctx, dsn(flags), kpg.WithSchemaRepository(repo))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Schema().Upgrade(ctx); err != nil {
				return err
			}
			return report(ctx, db.Schema(), logger)
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}

func dsn(f Flag) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(f.User, f.Password),
		Host:   fmt.Sprintf("%s:%d", f.Host, f.Port),
		Path:   "/" + f.Database,
	}
	return u.String()
}

type versioned interface {
	Version(ctx context.Context) (int, error)
}

func report(ctx context.Context, s versioned, logger *log.Logger) error {
	v, err := s.Version(ctx)
	if err != nil {
		return err
	}
	logger.Printf("schema version: %d", v)
	return nil
}
