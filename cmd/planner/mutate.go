package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/model"
	"planner/internal/period"
	"planner/internal/service"
)

var (
	titleFlag       string
	descriptionFlag string
	atFlag          string
	assumeYes       bool
)

var addCmd = &cobra.Command{
	Use:   "add <kind>",
	Short: "Create a task, weekly, monthly, goal or note",
	Long: `Create an entity. Tasks need --at with a date and time (YYYY-MM-DDTHH:MM).
Other kinds are stamped with today unless --at gives a date (YYYY-MM-DD).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		fields, err := fieldsFromFlags(cmd, kind)
		if err != nil {
			return err
		}
		if kind == model.Todos.Name && fields.Anchor == nil {
			return errors.New("a task needs --at YYYY-MM-DDTHH:MM")
		}

		id, err := create(cmd.Context(), newPlanner(nil), kind, fields)
		if err != nil {
			return err
		}
		if id > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s #%d\n", kind, id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", kind)
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <kind> <id>",
	Short: "Change the text or date of an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseKindID(args)
		if err != nil {
			return err
		}
		fields, err := fieldsFromFlags(cmd, kind)
		if err != nil {
			return err
		}
		p, err := loadPlanner(cmd.Context(), nil, kind)
		if err != nil {
			return err
		}
		if err := edit(cmd.Context(), p, kind, id, fields); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s #%d\n", kind, id)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <kind> <id>",
	Short: "Toggle the completion of an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseKindID(args)
		if err != nil {
			return err
		}
		p, err := loadPlanner(cmd.Context(), nil, kind)
		if err != nil {
			return err
		}
		done, err := p.ToggleComplete(cmd.Context(), kind, id)
		if err != nil {
			return err
		}
		state := "open"
		if done {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s #%d is %s\n", kind, id, state)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete an entity after confirmation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseKindID(args)
		if err != nil {
			return err
		}
		var confirm service.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		if assumeYes {
			confirm = service.AlwaysConfirm
		}
		p, err := loadPlanner(cmd.Context(), confirm, kind)
		if err != nil {
			return err
		}
		if err := p.Delete(cmd.Context(), kind, id); err != nil {
			if errors.Is(err, service.ErrNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "kept")
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s #%d\n", kind, id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&titleFlag, "title", "", "title (text of a note)")
		c.Flags().StringVar(&descriptionFlag, "description", "", "description")
		c.Flags().StringVar(&atFlag, "at", "", "deadline YYYY-MM-DDTHH:MM for tasks, date YYYY-MM-DD otherwise")
	}
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(addCmd, editCmd, doneCmd, deleteCmd)
}

// promptConfirmer asks on out and reads y/N from in.
func promptConfirmer(in io.Reader, out io.Writer) service.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

func fieldsFromFlags(cmd *cobra.Command, kind string) (model.Fields, error) {
	var f model.Fields
	flags := cmd.Flags()
	if flags.Changed("title") {
		title := titleFlag
		f.Title = &title
	}
	if flags.Changed("description") {
		description := descriptionFlag
		f.Description = &description
	}
	if flags.Changed("at") {
		at, err := parseAnchor(kind, atFlag)
		if err != nil {
			return f, err
		}
		f.Anchor = &at
	}
	return f, nil
}

func parseAnchor(kind, raw string) (time.Time, error) {
	if kind == model.Todos.Name {
		at, err := period.ParseDeadlineInput(raw, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse --at: %w", err)
		}
		return at, nil
	}
	at, err := period.ParseDateInput(raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --at: %w", err)
	}
	return at, nil
}

func parseKind(raw string) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(raw))
	for _, name := range service.KindNames {
		if name == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w %q, use one of: %s", service.ErrUnknownKind, raw, strings.Join(service.KindNames, ", "))
}

func parseKindID(args []string) (string, int, error) {
	kind, err := parseKind(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid id %q", args[1])
	}
	return kind, id, nil
}

func create(ctx context.Context, p *service.Planner, kind string, f model.Fields) (int, error) {
	switch kind {
	case model.Todos.Name:
		return createItem(ctx, p.Tasks, f)
	case model.Weeklies.Name:
		return createItem(ctx, p.Weekly, f)
	case model.Monthlies.Name:
		return createItem(ctx, p.Monthly, f)
	case model.Goals.Name:
		return createItem(ctx, p.Goals, f)
	default:
		return createItem(ctx, p.Notes, f)
	}
}

func createItem[T any](ctx context.Context, c *service.Coordinator[T], f model.Fields) (int, error) {
	var item T
	c.Kind().Assign(&item, f)
	created, err := c.Create(ctx, item)
	if err != nil {
		return 0, err
	}
	return c.Kind().ID(created), nil
}

func edit(ctx context.Context, p *service.Planner, kind string, id int, f model.Fields) error {
	switch kind {
	case model.Todos.Name:
		return editItem(ctx, p.Tasks, id, f)
	case model.Weeklies.Name:
		return editItem(ctx, p.Weekly, id, f)
	case model.Monthlies.Name:
		return editItem(ctx, p.Monthly, id, f)
	case model.Goals.Name:
		return editItem(ctx, p.Goals, id, f)
	default:
		return editItem(ctx, p.Notes, id, f)
	}
}

// editItem walks the row through an edit session: open a draft, change it,
// save it. A refused save discards the draft.
func editItem[T any](ctx context.Context, c *service.Coordinator[T], id int, f model.Fields) error {
	st := c.Store()
	if _, err := st.BeginEdit(id); err != nil {
		return fmt.Errorf("edit %s %d: %w", c.Kind().Name, id, err)
	}
	if _, err := st.EditDraft(id, func(item *T) { c.Kind().Assign(item, f) }); err != nil {
		return err
	}
	if err := c.SaveEdit(ctx, id); err != nil {
		st.CancelEdit(id)
		return err
	}
	return nil
}
