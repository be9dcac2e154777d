package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/config"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/models"
)

func (c *cli) newAddCmd() *cobra.Command {
	var (
		due      string
		listName string
		notes    string
		flagged  bool
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task. Without --list it goes to the default list.
Due dates are YYYY-MM-DD or "YYYY-MM-DD HH:MM".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := models.ParseDueDate(due)
			if err != nil {
				return err
			}
			prio := models.PriorityNormal
			if priority != "" {
				p, ok := models.ParsePriority(priority)
				if !ok {
					return fmt.Errorf("unknown priority %q", priority)
				}
				prio = p
			}

			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			in := controller.TaskInput{
				Title:    strings.Join(args, " "),
				DueDate:  dueDate,
				Notes:    notes,
				Flagged:  flagged,
				Priority: prio,
			}
			if listName != "" {
				list, ok := a.Lists.GetListByName(listName)
				if !ok {
					return fmt.Errorf("no list named %q", listName)
				}
				in.ListID = list.ID
			}

			task, err := a.Tasks.CreateTask(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "due date")
	cmd.Flags().StringVarP(&listName, "list", "l", "", "list name")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "notes")
	cmd.Flags().BoolVarP(&flagged, "flag", "f", false, "flag the task")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, normal or high")
	return cmd
}

func (c *cli) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [today|all|flagged|<list>]",
		Short: "List tasks",
		Long:  "List the tasks of a view or of a list. Defaults to all tasks.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			view := config.ViewAll
			if len(args) == 1 {
				view = args[0]
			}
			tasks, err := tasksFor(a, view)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), a, tasks)
			return nil
		},
	}
}

// tasksFor resolves a view name or a list name to its tasks
func tasksFor(a *app.App, view string) ([]models.Task, error) {
	switch strings.ToLower(view) {
	case config.ViewToday:
		return a.Tasks.GetTasksDueToday(), nil
	case config.ViewAll:
		return a.Tasks.GetAllTasks(), nil
	case config.ViewFlagged:
		return a.Tasks.GetFlaggedTasks(), nil
	}

	list, ok := a.Lists.GetListByName(view)
	if !ok {
		return nil, fmt.Errorf("no list named %q", view)
	}
	return a.Tasks.GetTasksByListID(list.ID), nil
}

func printTasks(w io.Writer, a *app.App, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		flag := " "
		if t.Flagged {
			flag = "!"
		}
		listName := t.ListID
		if list, ok := a.Lists.GetListByID(t.ListID); ok {
			listName = list.Name
		}

		line := fmt.Sprintf("[%s]%s %s  (%s", check, flag, t.Title, listName)
		if t.DueDate != nil {
			line += ", due " + models.FormatDueDate(t.DueDate)
		}
		if t.Priority != models.PriorityNormal {
			line += ", " + string(t.Priority)
		}
		fmt.Fprintf(w, "%s)  %s\n", line, t.ID)
	}
}

func (c *cli) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and not done",
		Long:  "Toggle completion. Any unambiguous prefix of the task ID works.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveTaskID(a, args[0])
			if err != nil {
				return err
			}
			task, err := a.Tasks.ToggleTaskCompletion(id)
			if err != nil {
				return err
			}

			state := "not done"
			if task.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", task.Title, state)
			return nil
		},
	}
}

func resolveTaskID(a *app.App, prefix string) (string, error) {
	if _, ok := a.Tasks.GetTaskByID(prefix); ok {
		return prefix, nil
	}

	var matches []string
	for _, t := range a.Tasks.GetAllTasks() {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task with id %q", prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%q matches %d tasks", prefix, len(matches))
}
