package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookshelf/internal/client"
	"bookshelf/internal/model"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List all books",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := newController(rootOpts)
			if err != nil {
				return err
			}

			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("list books: %s", ctrl.Err())
			}

			printBooks(cmd.OutOrStdout(), ctrl.Books())
			return nil
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get <id>",
		Short:        "Show a single book",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			api, err := client.New(rootOpts.ServerURL)
			if err != nil {
				return err
			}

			book, err := api.GetBook(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get book %d: %w", id, err)
			}

			printBooks(cmd.OutOrStdout(), []model.Book{*book})
			return nil
		},
	}
}

// NewEditCommand creates the edit command. It walks the controller through a
// full select/modify/submit cycle, so the printed list is the server's state
// after the update.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title  string
		author string
		year   string
	)

	cmd := &cobra.Command{
		Use:          "edit <id>",
		Short:        "Edit a book's fields and submit the change",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctrl, err := newController(rootOpts)
			if err != nil {
				return err
			}

			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("fetch books: %s", ctrl.Err())
			}

			book, ok := findBook(ctrl.Books(), id)
			if !ok {
				return fmt.Errorf("no book with id %d", id)
			}

			ctrl.Select(book)

			form := ctrl.Form()
			if cmd.Flags().Changed("title") {
				form.Title = title
			}
			if cmd.Flags().Changed("author") {
				form.Author = author
			}
			if cmd.Flags().Changed("year") {
				form.Year = year
			}

			if err := ctrl.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("update book %d: %s", id, ctrl.Err())
			}

			printBooks(cmd.OutOrStdout(), ctrl.Books())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&year, "year", "", "new publication year")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete a book",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctrl, err := newController(rootOpts)
			if err != nil {
				return err
			}

			if err := ctrl.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete book %d: %s", id, ctrl.Err())
			}

			printBooks(cmd.OutOrStdout(), ctrl.Books())
			return nil
		},
	}
}

// parseID parses a book identifier argument.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book id %q: must be an integer", raw)
	}
	return id, nil
}

// findBook locates a book by ID in the fetched list.
func findBook(books []model.Book, id int64) (model.Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return model.Book{}, false
}

// printBooks renders books as an aligned table.
func printBooks(w io.Writer, books []model.Book) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", b.ID, b.Title, b.Author, b.Year)
	}
	tw.Flush()
}
