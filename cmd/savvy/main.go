package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/savvy-app/savvy/client"
	"github.com/savvy-app/savvy/internal/profile"
	"github.com/savvy-app/savvy/state"
	"github.com/savvy-app/savvy/store"
	"github.com/savvy-app/savvy/store/db"
)

var version = "dev"

// app wires the full client stack for one command invocation.
type app struct {
	profile  *profile.Profile
	store    *store.Store
	session  *client.Session
	client   *client.Client
	services *client.Services
}

func newApp() (*app, error) {
	p := &profile.Profile{
		Mode:      viper.GetString("mode"),
		Data:      viper.GetString("data"),
		Driver:    viper.GetString("driver"),
		ServerURL: viper.GetString("server-url"),
		Version:   version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}

	st := store.New(driver)
	session := client.NewSession(st)
	c := client.New(client.Config{
		BaseURL:           p.ServerURL,
		Session:           session,
		Timeout:           p.RequestTimeout,
		RequestsPerSecond: p.RequestsPerSecond,
	})

	return &app{
		profile:  p,
		store:    st,
		session:  session,
		client:   c,
		services: client.NewServices(c, st, p.CacheMaxAge),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close storage: %v\n", err)
	}
}

func useCache() bool {
	return !viper.GetBool("no-cache")
}

func cacheTag(fromCache bool) string {
	if fromCache {
		return " (from cache)"
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "savvy",
	Short: "Command-line client for the Savvy personal finance service",
	Long: `Savvy tracks expenses, categories, a savings leaderboard and a blog feed.
Successful reads are cached locally and served without a network round trip
while fresh; every mutation invalidates the affected cache.`,
	SilenceUsage: true,
}

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Manage expenses",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		view := state.NewExpenses(a.services.Expenses, true)
		view.Mount(ctx)
		if !useCache() {
			view.Load(ctx, false)
		}

		snap := view.Snapshot()
		if snap.Err != "" {
			return fmt.Errorf("%s", snap.Err)
		}
		fmt.Printf("%d expenses%s\n", len(snap.Items), cacheTag(snap.FromCache))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, e := range snap.Items {
			category := ""
			if e.Category != nil {
				category = e.Category.Name
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", e.ID, e.Amount.StringFixed(2), e.Currency, category, e.Note)
		}
		return w.Flush()
	},
}

var expensesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	RunE: func(cmd *cobra.Command, _ []string) error {
		amount, err := decimal.NewFromString(viper.GetString("amount"))
		if err != nil {
			return fmt.Errorf("invalid --amount: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		expense, err := a.services.Expenses.Create(cmd.Context(), &client.CreateExpense{
			Amount:     amount,
			Currency:   viper.GetString("currency"),
			Note:       viper.GetString("note"),
			CategoryID: viper.GetString("category"),
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded expense %s: %s %s\n", expense.ID, expense.Amount.StringFixed(2), expense.Currency)
		return nil
	},
}

var expensesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.services.Expenses.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage expense categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items, fromCache, err := a.services.Categories.List(cmd.Context(), useCache())
		if err != nil {
			return err
		}
		fmt.Printf("%d categories%s\n", len(items), cacheTag(fromCache))
		for _, c := range items {
			fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.Color)
		}
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		category, err := a.services.Categories.Create(cmd.Context(), &client.CreateCategory{
			Name:  args[0],
			Color: viper.GetString("color"),
		})
		if err != nil {
			return err
		}
		fmt.Printf("created category %s: %s\n", category.ID, category.Name)
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the savings leaderboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, fromCache, err := a.services.Leaderboard.List(cmd.Context(), useCache())
		if err != nil {
			return err
		}
		fmt.Printf("leaderboard%s\n", cacheTag(fromCache))
		for i, e := range entries {
			fmt.Printf("%d.\t%s\tspent %s\n", i+1, e.Name, e.Total.StringFixed(2))
		}
		return nil
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Read and write the blog feed",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		posts, fromCache, err := a.services.Posts.List(cmd.Context(), useCache())
		if err != nil {
			return err
		}
		fmt.Printf("%d posts%s\n", len(posts), cacheTag(fromCache))
		for _, p := range posts {
			author := "unknown"
			if p.Author != nil && p.Author.Name != "" {
				author = p.Author.Name
			}
			fmt.Printf("%s\t%s: %s (%d likes, %d comments)\n", p.ID, author, p.Content, p.Counts.Likes, p.Counts.Comments)
		}
		return nil
	},
}

var postsAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Publish a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		post, err := a.services.Posts.Create(cmd.Context(), &client.CreatePost{
			Content:  args[0],
			ImageURL: viper.GetString("image-url"),
		})
		if err != nil {
			return err
		}
		fmt.Printf("published post %s\n", post.ID)
		return nil
	},
}

var postsLikeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.services.Posts.Like(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("liked", args[0])
		return nil
	},
}

var postsCommentCmd = &cobra.Command{
	Use:   "comment <id> <content>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.services.Posts.AddComment(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("commented on", args[0])
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, fromCache, err := a.services.Profile.Get(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("profile%s\n", cacheTag(fromCache))
		fmt.Printf("  id:    %s\n  name:  %s\n  email: %s\n  theme: %s\n", user.ID, user.Name, user.Email, user.Theme)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		update := &client.UpdateProfile{}
		if cmd.Flags().Changed("name") {
			v := viper.GetString("name")
			update.Name = &v
		}
		if cmd.Flags().Changed("image") {
			v := viper.GetString("image")
			update.Image = &v
		}
		if cmd.Flags().Changed("theme") {
			v := viper.GetString("theme")
			update.Theme = &v
		}

		user, err := a.services.Profile.Update(cmd.Context(), update)
		if err != nil {
			return err
		}
		fmt.Printf("updated profile for %s\n", user.Name)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refetch every resource, bypassing and repopulating the cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.services.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("refreshed expenses, categories, leaderboard and posts")
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect local storage",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe all locally stored data, including the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.store.Clear(cmd.Context()) {
			return fmt.Errorf("failed to clear local storage")
		}
		fmt.Println("local storage cleared")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store an API token for authenticated requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.session.SetToken(cmd.Context(), args[0]) {
			return fmt.Errorf("failed to store token")
		}
		fmt.Println("token stored")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.session.ClearToken(cmd.Context())
		fmt.Println("token removed")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the client, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("data", "", "data directory for local storage")
	rootCmd.PersistentFlags().String("driver", "", `local storage driver, "sqlite" or "memory"`)
	rootCmd.PersistentFlags().String("server-url", "", "origin of the Savvy API")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the local cache on reads")

	for _, flag := range []string{"mode", "data", "driver", "server-url", "no-cache"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("savvy")
	viper.AutomaticEnv()

	expensesAddCmd.Flags().String("amount", "", "amount spent, e.g. 12.50")
	expensesAddCmd.Flags().String("currency", "RUB", "currency code")
	expensesAddCmd.Flags().String("note", "", "free-form note")
	expensesAddCmd.Flags().String("category", "", "category id")
	_ = expensesAddCmd.MarkFlagRequired("amount")
	for _, flag := range []string{"amount", "currency", "note", "category"} {
		if err := viper.BindPFlag(flag, expensesAddCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	categoriesAddCmd.Flags().String("color", "", "display color, e.g. #3B82F6")
	if err := viper.BindPFlag("color", categoriesAddCmd.Flags().Lookup("color")); err != nil {
		panic(err)
	}

	postsAddCmd.Flags().String("image-url", "", "optional image URL")
	if err := viper.BindPFlag("image-url", postsAddCmd.Flags().Lookup("image-url")); err != nil {
		panic(err)
	}

	profileUpdateCmd.Flags().String("name", "", "display name")
	profileUpdateCmd.Flags().String("image", "", "avatar URL")
	profileUpdateCmd.Flags().String("theme", "", "ui theme: light, dark or system")
	for _, flag := range []string{"name", "image", "theme"} {
		if err := viper.BindPFlag(flag, profileUpdateCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	expensesCmd.AddCommand(expensesListCmd, expensesAddCmd, expensesRmCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd)
	postsCmd.AddCommand(postsListCmd, postsAddCmd, postsLikeCmd, postsCommentCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(expensesCmd, categoriesCmd, leaderboardCmd, postsCmd, profileCmd, refreshCmd, cacheCmd, loginCmd, logoutCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
