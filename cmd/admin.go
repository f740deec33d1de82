package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"parlay/application"
	"parlay/config"
	"parlay/database"
	"parlay/domain/entities"
	"parlay/infrastructure"

	"github.com/olekukonko/tablewriter"
)

const adminUsage = `usage: parlay admin <command> [args...]
  board [YYYY-MM-DD]
  leaderboard [daily|weekly|monthly]
  resolve <question_id> <A|B>
  add-question <YYYY-MM-DD> <lock RFC3339> <category> <prompt> <option_a> <option_b>`

// RunAdmin runs an operator command against the database and writes the result to out
func RunAdmin(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", adminUsage)
	}

	cfg := config.Get()
	ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Admin commands don't publish events
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	ledger := application.NewLedger(uowFactory, ledgerConfig(cfg), nil)

	return runAdminCommand(ctx, ledger, cfg, args, out)
}

func runAdminCommand(ctx context.Context, ledger *application.Ledger, cfg *config.Config, args []string, out io.Writer) error {
	now := time.Now()

	switch args[0] {
	case "board":
		date := now.In(cfg.Location())
		if len(args) > 1 {
			parsed, err := time.ParseInLocation(time.DateOnly, args[1], cfg.Location())
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[1], err)
			}
			date = parsed
		}
		questions, err := ledger.GetBoard(ctx, date)
		if err != nil {
			return err
		}
		return renderBoard(out, questions, now)

	case "leaderboard":
		window := entities.WindowDaily
		if len(args) > 1 {
			parsed, err := entities.ParseWindow(args[1])
			if err != nil {
				return err
			}
			window = parsed
		}
		standings, err := ledger.Leaderboard(ctx, window, cfg.LeaderboardLimit)
		if err != nil {
			return err
		}
		return renderLeaderboard(out, standings)

	case "resolve":
		if len(args) != 3 {
			return fmt.Errorf("%s", adminUsage)
		}
		questionID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid question id %q: %w", args[1], err)
		}
		option, err := entities.ParseOption(args[2])
		if err != nil {
			return err
		}
		question, err := ledger.ResolveQuestion(ctx, questionID, option)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Q%d resolved: %s (%s)\n", question.ID, option, question.Label(option))
		return nil

	case "add-question":
		question, err := parseQuestionArgs(args[1:], cfg.Location())
		if err != nil {
			return err
		}
		if err := ledger.CreateQuestion(ctx, question); err != nil {
			return err
		}
		fmt.Fprintf(out, "Q%d created, locks %s\n", question.ID, question.LockTime.Format(time.RFC3339))
		return nil

	default:
		return fmt.Errorf("unknown admin command %q\n%s", args[0], adminUsage)
	}
}

// parseQuestionArgs reads <date> <lock> <category> <prompt> <option_a> <option_b>
func parseQuestionArgs(args []string, loc *time.Location) (*entities.Question, error) {
	if len(args) != 6 {
		return nil, fmt.Errorf("%s", adminUsage)
	}

	date, err := time.ParseInLocation(time.DateOnly, args[0], loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", args[0], err)
	}
	lockTime, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid lock time %q: %w", args[1], err)
	}

	return &entities.Question{
		Category:      args[2],
		Prompt:        args[3],
		OptionA:       args[4],
		OptionB:       args[5],
		LockTime:      lockTime,
		ScheduledDate: date,
	}, nil
}

func renderBoard(out io.Writer, questions []*entities.Question, now time.Time) error {
	table := tablewriter.NewWriter(out)
	table.Header("ID", "Category", "Prompt", "A", "B", "Locks", "Status")
	for _, q := range questions {
		status := "open"
		switch {
		case q.IsDecided():
			status = "result " + string(*q.WinningOption)
		case q.IsLive(now):
			status = "live"
		}
		if err := table.Append(
			strconv.FormatInt(q.ID, 10),
			q.Category,
			q.Prompt,
			q.OptionA,
			q.OptionB,
			q.LockTime.Format(time.RFC3339),
			status,
		); err != nil {
			return fmt.Errorf("failed to render board: %w", err)
		}
	}
	return table.Render()
}

func renderLeaderboard(out io.Writer, standings []*entities.Standing) error {
	table := tablewriter.NewWriter(out)
	table.Header("Rank", "User", "Points")
	for _, s := range standings {
		if err := table.Append(
			strconv.Itoa(s.Rank),
			strings.TrimSpace(s.Username),
			strconv.FormatInt(s.Points, 10),
		); err != nil {
			return fmt.Errorf("failed to render leaderboard: %w", err)
		}
	}
	return table.Render()
}
