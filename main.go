package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bookverse-cli/bookverse"
	"bookverse-cli/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	mgr *bookverse.Manager
	p   *prompter
	out io.Writer
}

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	root, a := newRootCmd()
	err := root.Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// close releases the session store if a command opened it.
func (a *app) close() {
	if a.mgr != nil {
		_ = a.mgr.Close()
		a.mgr = nil
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	var (
		apiURL   string
		dbPath   string
		logLevel string
	)

	root := &cobra.Command{
		Use:          "bookverse",
		Short:        "Browse, review and manage books on a BookVerse server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if logLevel != "" {
				if _, err := config.ParseLevel(logLevel); err != nil {
					return err
				}
				cfg.LogLevel = logLevel
			}

			mgr, err := bookverse.NewManager(bookverse.Options{
				APIURL:         cfg.APIURL,
				DBPath:         cfg.DBPath,
				RequestTimeout: cfg.RequestTimeout,
				Logger:         cfg.NewLogger(),
			})
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			a.mgr = mgr
			a.out = cmd.OutOrStdout()
			a.p = newPrompter(os.Stdin, a.out)
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			runShell(a)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $BOOKVERSE_API_URL)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "session database path (default $BOOKVERSE_DB_PATH)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive client",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				runShell(a)
				return nil
			},
		},
		authCmd(a, bookverse.ModeLogin),
		authCmd(a, bookverse.ModeRegister),
		logoutCmd(a),
		whoamiCmd(a),
		booksCmd(a),
		bookCmd(a),
		reviewCmd(a),
		adminCmd(a),
	)
	return root, a
}

// resultErr turns a failed result into a command error after printing it.
func resultErr(a *app, res bookverse.Result) error {
	printResult(a.out, res)
	if res.Outcome == bookverse.Failed {
		return errors.New(res.Message)
	}
	return nil
}

func authCmd(a *app, mode bookverse.AuthMode) *cobra.Command {
	short := "Log in and save the session"
	if mode == bookverse.ModeRegister {
		short = "Create an account"
	}
	return &cobra.Command{
		Use:   mode.String() + " [email]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.mgr.AuthDialog()
			d.Open()
			if mode == bookverse.ModeRegister {
				d.Toggle()
			}
			res, err := submitAuth(cmd, a, d, args)
			if err != nil {
				return err
			}
			return resultErr(a, res.Result)
		},
	}
}

// submitAuth reads credentials and submits them through the dialog.
func submitAuth(cmd *cobra.Command, a *app, d *bookverse.AuthDialog, args []string) (bookverse.SubmitResult, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var ok bool
		if email, ok = a.p.line("Email: "); !ok {
			return bookverse.SubmitResult{}, errors.New("no email given")
		}
	}
	password, err := a.p.password("Password: ")
	if err != nil {
		return bookverse.SubmitResult{}, fmt.Errorf("read password: %w", err)
	}
	return d.Submit(cmd.Context(), email, password), nil
}

// reviewsAllowed reports whether the session may review, printing why not.
// Anonymous users pass so that submitting can ask them to log in.
func reviewsAllowed(a *app) bool {
	s := a.mgr.Session()
	if s.Authenticated() && !s.View().ReviewFormVisible {
		fmt.Fprintln(a.out, "Admins cannot submit reviews.")
		return false
	}
	return true
}

func logoutCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			confirm := a.p.confirm
			if yes {
				confirm = func(string) bool { return true }
			}
			return resultErr(a, a.mgr.Session().Logout(confirm))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			printWhoami(a)
			return nil
		},
	}
}

func printWhoami(a *app) {
	s := a.mgr.Session()
	u := s.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintf(a.out, "%s (%s)\n", u.Email, s.State())
	exp, ok, err := bookverse.TokenExpiry(s.Token())
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Token: opaque")
	case !ok:
		fmt.Fprintln(a.out, "Token: no expiry")
	case time.Now().After(exp):
		fmt.Fprintf(a.out, "Token: expired %s\n", exp.Local().Format(time.RFC1123))
	default:
		fmt.Fprintf(a.out, "Token: expires %s\n", exp.Local().Format(time.RFC1123))
	}
}

func booksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "books [query]",
		Short: "List books, optionally filtered by title or author",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := a.mgr.CatalogPage()
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			v := page.Search(cmd.Context(), query)
			printCatalog(a.out, v)
			if v.Status == bookverse.StatusFailed {
				return errors.New(v.Placeholder)
			}
			return nil
		},
	}
}

func bookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book <id>",
		Short: "Show a book and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := a.mgr.DetailPage(args[0])
			v, err := page.Load(cmd.Context())
			printDetail(a.out, v, a.mgr.Session().View())
			return err
		},
	}
}

func reviewCmd(a *app) *cobra.Command {
	var (
		rating int
		text   string
	)
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Rate and review a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !reviewsAllowed(a) {
				return bookverse.ErrReviewNotAllowed
			}
			page := a.mgr.DetailPage(args[0])
			if rating != 0 {
				if err := page.SelectRating(rating); err != nil {
					return err
				}
			}
			res := page.SubmitReview(cmd.Context(), text)
			if errors.Is(res.Err, bookverse.ErrLoginRequired) {
				fmt.Fprintln(a.out, "Please login first: bookverse login")
			}
			if err := resultErr(a, res); err != nil {
				return err
			}
			printReviews(a.out, page.View())
			return nil
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "score from 1 to 5")
	cmd.Flags().StringVarP(&text, "text", "t", "", "review text")
	return cmd
}

func adminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage the book collection",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := a.mgr.AdminPage().Load(cmd.Context())
			printAdmin(a.out, v)
			if v.Status == bookverse.StatusFailed {
				return errors.New(v.Placeholder)
			}
			return nil
		},
	}

	var form bookverse.BookForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := a.mgr.AdminPage()
			if err := resultErr(a, page.Create(cmd.Context(), form)); err != nil {
				return err
			}
			printAdmin(a.out, page.View())
			return nil
		},
	}
	add.Flags().StringVar(&form.Title, "title", "", "book title (required)")
	add.Flags().StringVar(&form.Author, "author", "", "author name")
	add.Flags().StringVar(&form.Image, "image", "", "cover image URL")
	add.Flags().StringVar(&form.Tags, "tags", "", "comma-separated tags")
	add.Flags().StringVar(&form.BuyLinks, "buy-links", "", "comma-separated purchase links")
	add.Flags().StringVar(&form.PDFLinks, "pdf-links", "", "comma-separated PDF links")
	_ = add.MarkFlagRequired("title")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := a.p.confirm
			if yes {
				confirm = func(string) bool { return true }
			}
			return resultErr(a, a.mgr.AdminPage().Delete(cmd.Context(), args[0], confirm))
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	admin.AddCommand(list, add, del)
	return admin
}
