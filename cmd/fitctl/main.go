package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kelfit/internal/client"
	"kelfit/internal/logger"
	"kelfit/internal/model"
)

const usage = `usage: fitctl [-server URL] [-session FILE] <command> [args]

commands:
  login EMAIL            sign in (password from -password or KELFIT_PASSWORD)
  register EMAIL NAME    create an account
  logout                 revoke and forget the session
  whoami                 print the stored user without contacting the server
  profile                fetch the current profile
  refresh                renew the access token
  config                 print the public configuration
  workouts [Home|Gym]    list workouts
  exercises ID           list the exercises of a workout
  challenges             list challenges
  progress               list daily progress
  water ML               add water intake for today
  weight KG              log today's weight
`

func main() {
	log := logger.New(envOr("KELFIT_ENV", "production"))

	fs := flag.NewFlagSet("fitctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	server := fs.String("server", envOr("KELFIT_SERVER", "http://localhost:8080"), "API base URL")
	sessionPath := fs.String("session", defaultSessionPath(), "session file")
	password := fs.String("password", os.Getenv("KELFIT_PASSWORD"), "account password")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	if err := os.MkdirAll(filepath.Dir(*sessionPath), 0o700); err != nil {
		log.Fatal().Err(err).Msg("create session directory")
	}
	store, err := client.OpenSessionStore(*sessionPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *sessionPath).Msg("open session")
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := client.NewClient(ctx, *server, store)
	if err != nil {
		log.Fatal().Err(err).Msg("load session")
	}

	if err := run(ctx, c, *password, fs.Args()); err != nil {
		logFailure(log, err)
		store.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, password string, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		if len(rest) != 1 || password == "" {
			return errors.New("login needs EMAIL and a password")
		}
		user, err := c.Login(ctx, rest[0], password)
		if err != nil {
			return err
		}
		printUser(user)
	case "register":
		if len(rest) != 2 || password == "" {
			return errors.New("register needs EMAIL NAME and a password")
		}
		user, err := c.Register(ctx, rest[0], password, rest[1])
		if err != nil {
			return err
		}
		printUser(user)
	case "logout":
		return c.Logout(ctx)
	case "whoami":
		user := c.User()
		if user == nil {
			return client.ErrUnauthorized
		}
		printUser(user)
	case "profile":
		user, err := c.Profile(ctx)
		if err != nil {
			return err
		}
		printUser(user)
	case "refresh":
		return c.Refresh(ctx)
	case "config":
		cfg, err := c.Config(ctx)
		if err != nil {
			return err
		}
		for key, value := range cfg {
			fmt.Printf("%s=%s\n", key, value)
		}
	case "workouts":
		var category model.WorkoutCategory
		if len(rest) > 0 {
			category = model.WorkoutCategory(rest[0])
		}
		workouts, err := c.Workouts(ctx, category)
		if err != nil {
			return err
		}
		for _, w := range workouts {
			fmt.Printf("%d\t%s\t%s\t%s\n", w.ID, w.Category, w.Type, w.Name)
		}
	case "exercises":
		id, err := parseArg(rest)
		if err != nil {
			return err
		}
		exercises, err := c.Exercises(ctx, uint(id))
		if err != nil {
			return err
		}
		for _, e := range exercises {
			fmt.Printf("%d\t%s\n", e.OrderIndex, e.Name)
		}
	case "challenges":
		challenges, err := c.Challenges(ctx)
		if err != nil {
			return err
		}
		for _, ch := range challenges {
			fmt.Printf("%d\t%s\t%d days\n", ch.ID, ch.Title, ch.DurationDays)
		}
	case "progress":
		rows, err := c.Progress(ctx)
		if err != nil {
			return err
		}
		for _, p := range rows {
			fmt.Printf("%s\twater=%dml\tweight=%s\n", p.Date, p.WaterIntake, formatDecimal(p.Weight))
		}
	case "water":
		amount, err := parseArg(rest)
		if err != nil {
			return err
		}
		return c.AddWater(ctx, amount)
	case "weight":
		if len(rest) != 1 {
			return errors.New("weight needs KG")
		}
		weight, err := decimal.NewFromString(rest[0])
		if err != nil {
			return fmt.Errorf("invalid weight %q", rest[0])
		}
		return c.LogWeight(ctx, weight)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printUser(u *model.User) {
	fmt.Printf("%d\t%s\t%s\trole=%s\tlanguage=%s\n", u.ID, u.Email, u.Name, u.Role, u.Language)
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func parseArg(rest []string) (int, error) {
	if len(rest) != 1 {
		return 0, errors.New("expected one numeric argument")
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", rest[0])
	}
	return n, nil
}

func logFailure(log zerolog.Logger, err error) {
	if errors.Is(err, client.ErrUnauthorized) {
		log.Error().Err(err).Msg("not logged in, run fitctl login")
		return
	}
	log.Error().Err(err).Msg("command failed")
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kelfit-session.db"
	}
	return filepath.Join(dir, "kelfit", "session.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
