package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/repository"
	"github.com/resumeforge/resumeforge/internal/service"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func main() {
	var (
		databaseURL   = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username      = flag.String("username", "", "Username for the new account")
		email         = flag.String("email", "", "Optional email address")
		passwordStdin = flag.Bool("password-stdin", false, "Read the password from the first line of stdin")
		migrate       = flag.Bool("migrate", false, "Apply schema migrations before creating the user")
		format        = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*username) == "" {
		fmt.Fprintln(os.Stderr, "-username is required")
		os.Exit(1)
	}

	password := os.Getenv("RESUMEFORGE_PASSWORD")
	if *passwordStdin {
		var err error
		password, err = readPassword(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read password:", err)
			os.Exit(1)
		}
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "password is required: set RESUMEFORGE_PASSWORD or use -password-stdin")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if *migrate {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		if err := repo.Migrate(ctx, logger); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	// Registration never touches the session store.
	accounts := service.NewAccountService(repo, nil, 0, metrics.NewNoop())
	user, err := accounts.Register(ctx, service.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: password,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			fmt.Fprintf(os.Stderr, "username %q already exists\n", strings.TrimSpace(*username))
		case errors.As(err, &verr):
			for _, f := range verr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", f.Field, f.Message)
			}
		default:
			fmt.Fprintln(os.Stderr, "create user:", err)
		}
		os.Exit(1)
	}

	out := output{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
