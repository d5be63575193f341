// Command seeduser writes the credential record directly into the database,
// so a deployment can be provisioned without going through the signup page.
// The existing record, if any, is overwritten.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kendallhq/managerpro/internal/auth"
	"github.com/kendallhq/managerpro/internal/session"
	"github.com/kendallhq/managerpro/internal/storage"
	"github.com/kendallhq/managerpro/internal/storage/kv"
	"github.com/kendallhq/managerpro/internal/validation"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seeduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "managerpro.db", "Path to database file")
	prefix := fs.String("prefix", "kendall_manager_pro", "Key namespace prefix")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: seeduser -email <email> [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}
	if !validation.Email(*email) {
		return fmt.Errorf("invalid email address: %s", *email)
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if reasons := validation.Password(password); len(reasons) > 0 {
		return fmt.Errorf("password too weak: %s", strings.Join(reasons, ", "))
	}

	ctx := context.Background()

	db, err := storage.Open(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store := kv.NewSQLiteStore(db)
	svc := auth.NewService(store, session.NewManager(store, *prefix), *prefix, 0)
	if err := svc.SaveCredential(ctx, *email, password); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	fmt.Fprintf(stdout, "Credential for %s saved successfully\n", *email)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal input (tests, pipes).
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
