package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finance/internal/config"
	"finance/internal/db"
	"finance/migrations"

	"github.com/google/subcommands"
	"github.com/jmoiron/sqlx"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&upCmd{}, "")
	commander.Register(&statusCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func connect() (*sqlx.DB, error) {
	return db.Connect(config.Load().DatabaseURL)
}

type upCmd struct{}

func (*upCmd) Name() string     { return "up" }
func (*upCmd) Synopsis() string { return "applies every pending migration" }
func (*upCmd) Usage() string {
	return `migrate up

Applies the embedded SQL migrations that are not yet recorded in
schema_migrations, in file name order. DATABASE_URL selects the database.
`
}
func (*upCmd) SetFlags(*flag.FlagSet) {}

func (*upCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	database, err := connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer database.Close()

	applied, err := migrations.Apply(database)
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(applied) == 0 {
		fmt.Println("schema up to date")
	}
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "lists migrations that have not been applied" }
func (*statusCmd) Usage() string {
	return `migrate status

Prints the embedded migrations not yet recorded in schema_migrations.
Exits with status 1 when any are pending.
`
}
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	database, err := connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer database.Close()

	todo, err := migrations.Pending(database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read migration state: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(todo) == 0 {
		fmt.Println("schema up to date")
		return subcommands.ExitSuccess
	}
	for _, name := range todo {
		fmt.Printf("pending %s\n", name)
	}
	return subcommands.ExitFailure
}
