package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/models"
)

func (c *cli) newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show lists with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			for _, l := range a.Lists.GetAllLists() {
				n := len(a.Tasks.GetTasksByListID(l.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %3d  %s\n", l.Name, n, l.ID)
			}
			return nil
		},
	}

	var icon string
	create := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.Lists.CreateList(controller.ListInput{Name: args[0], Icon: icon})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", list.ID)
			return nil
		},
	}
	create.Flags().StringVar(&icon, "icon", "", "icon name")

	rename := &cobra.Command{
		Use:   "rename <name> <new name>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := listByName(a, args[0])
			if err != nil {
				return err
			}
			_, err = a.Lists.UpdateList(list.ID, controller.ListInput{Name: args[1]})
			return err
		},
	}

	remove := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a list and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := listByName(a, args[0])
			if err != nil {
				return err
			}
			n := len(a.Tasks.GetTasksByListID(list.ID))
			if _, err := a.DeleteList(list.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s and %d task(s)\n", list.Name, n)
			return nil
		},
	}

	cmd.AddCommand(create, rename, remove)
	return cmd
}

func listByName(a *app.App, name string) (models.TaskList, error) {
	list, ok := a.Lists.GetListByName(name)
	if !ok {
		return models.TaskList{}, fmt.Errorf("no list named %q", name)
	}
	return list, nil
}

func (c *cli) newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task and list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all data, pass --yes to confirm")
			}
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All tasks and lists removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
