package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/history"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/storage"
	"recipe-planner/internal/watch"
)

var errUsage = errors.New("usage")

type cli struct {
	cfg      *config.Config
	session  *app.Session
	backend  storage.Backend
	recorder *metrics.Recorder
	logger   *zap.Logger
	out      io.Writer
	now      func() time.Time
}

func (c *cli) today() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "import":
		return c.importFiles(ctx, args)
	case "recipes":
		return c.listRecipes()
	case "view":
		return c.view(ctx, args)
	case "favorite":
		return c.favorite(ctx, args)
	case "favorites":
		return c.listFavorites()
	case "plan":
		return c.plan(ctx, args)
	case "unplan":
		return c.unplan(ctx, args)
	case "week":
		return c.week(args)
	case "shopping":
		return c.shopping(ctx, args)
	case "check":
		return c.check(ctx, args)
	case "history":
		return c.history(args)
	case "clear-history":
		if err := c.session.ClearHistory(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "History cleared.")
		return nil
	case "dark-mode":
		return c.darkMode(ctx, args)
	case "watch":
		return c.watch(ctx)
	case "stats":
		return c.stats(ctx)
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n", command)
		return errUsage
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", s)
	}
	return id, nil
}

func (c *cli) importFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errUsage
	}
	var all []recipe.Recipe
	for _, path := range paths {
		res, err := recipe.ReadFile(path)
		if err != nil {
			return err
		}
		for _, skipped := range res.Skipped {
			c.logger.Warn("skipping invalid recipe", zap.String("path", path), zap.Error(skipped))
		}
		all = append(all, res.Recipes...)
	}
	added, err := c.session.ImportRecipes(ctx, all)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Imported %d recipes (%d new).\n", len(all), added)
	return nil
}

func (c *cli) listRecipes() error {
	recipes := c.session.Recipes()
	if len(recipes) == 0 {
		fmt.Fprintln(c.out, "No recipes yet. Import some with 'recipe-planner import'.")
		return nil
	}
	for _, r := range recipes {
		star := " "
		if c.session.IsFavorite(r.ID) {
			star = "*"
		}
		fmt.Fprintf(c.out, "%s %-8d %-40s %2d servings  %3d min\n", star, r.ID, r.Title, r.Servings, r.ReadyInMinutes)
	}
	return nil
}

func (c *cli) view(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	r, err := c.session.ViewRecipe(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s (#%d)\n", r.Title, r.ID)
	fmt.Fprintf(c.out, "Servings: %d  Ready in: %d min\n", r.Servings, r.ReadyInMinutes)
	if r.SourceURL != "" {
		fmt.Fprintf(c.out, "Source: %s\n", r.SourceURL)
	}
	fmt.Fprintln(c.out, "\nIngredients:")
	for _, ing := range r.Ingredients {
		line := ing.Original
		if line == "" {
			line = strings.TrimSpace(fmt.Sprintf("%s %s %s", shopping.Combine([]shopping.Measure{{Amount: ing.Amount}}), ing.Unit, ing.DisplayName()))
		}
		fmt.Fprintf(c.out, "  - %s\n", line)
	}
	return nil
}

func (c *cli) favorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	on, err := c.session.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintf(c.out, "Recipe %d added to favorites.\n", id)
	} else {
		fmt.Fprintf(c.out, "Recipe %d removed from favorites.\n", id)
	}
	return nil
}

func (c *cli) listFavorites() error {
	favs := c.session.Favorites()
	if len(favs) == 0 {
		fmt.Fprintln(c.out, "No favorites yet.")
		return nil
	}
	for _, r := range favs {
		fmt.Fprintf(c.out, "%-8d %s\n", r.ID, r.Title)
	}
	return nil
}

func (c *cli) plan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	servings := fs.Int("servings", c.cfg.DefaultServings, "Servings to cook")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	id, err := parseID(fs.Arg(1))
	if err != nil {
		return err
	}

	dateKey := fs.Arg(0)
	err = c.session.AddToDay(ctx, dateKey, id, *servings)
	if errors.Is(err, planner.ErrDuplicateMeal) {
		return fmt.Errorf("recipe %d is already planned for %s", id, dateKey)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Planned recipe %d on %s for %d servings.\n", id, dateKey, planner.ClampServings(*servings))
	return nil
}

func (c *cli) unplan(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	removed, err := c.session.RemoveMeal(ctx, args[0], id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(c.out, "Recipe %d was not planned on %s.\n", id, args[0])
		return nil
	}
	fmt.Fprintf(c.out, "Removed recipe %d from %s.\n", id, args[0])
	return nil
}

func (c *cli) week(args []string) error {
	fs := flag.NewFlagSet("week", flag.ContinueOnError)
	todayFlag := fs.String("today", "", "Show the week containing this date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	today := c.today()
	if *todayFlag != "" {
		t, err := planner.ParseDateKey(*todayFlag)
		if err != nil {
			return err
		}
		today = t
	}

	fmt.Fprintf(c.out, "Week of %s (%d meals planned in total)\n\n", planner.WeekStart(today).Format("Jan 2, 2006"), c.session.MealCount())
	for _, d := range c.session.Week(today) {
		marker := " "
		switch {
		case d.IsToday:
			marker = ">"
		case d.IsPast:
			marker = "-"
		}
		fmt.Fprintf(c.out, "%s %s %s\n", marker, d.Short, d.DateKey)
		for _, m := range d.Meals {
			fmt.Fprintf(c.out, "      %-8d %s (%d servings)\n", m.ID, m.Title, m.PlannedServings)
		}
	}
	return nil
}

func (c *cli) shopping(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shopping", flag.ContinueOnError)
	xlsxPath := fs.String("xlsx", "", "Also write the list to this .xlsx file")
	hideChecked := fs.Bool("hide-checked", false, "Print only items still to buy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := c.session.ShoppingList(ctx)
	if err != nil {
		return err
	}
	if list.IsEmpty() {
		fmt.Fprintln(c.out, "Your shopping list is empty. Plan some meals first.")
		return nil
	}
	checked := c.session.Checked()

	if *hideChecked {
		fmt.Fprintln(c.out, shopping.FormatText(list, checked))
	} else {
		fmt.Fprintf(c.out, "%d of %d items checked\n", checked.Count(), list.Len())
		for _, g := range list.Aisles {
			fmt.Fprintf(c.out, "\n== %s ==\n", g.Aisle)
			for _, it := range g.Items {
				box := "[ ]"
				if checked.IsChecked(it.Key) {
					box = "[x]"
				}
				qty := ""
				if it.Quantity != "" {
					qty = " (" + it.Quantity + ")"
				}
				fmt.Fprintf(c.out, "%s %s%s  {%s}  %s\n", box, it.Name, qty, it.Key, strings.Join(it.Recipes, ", "))
			}
		}
	}
	if checked.AllChecked(list) {
		fmt.Fprintln(c.out, "\nAll items checked.")
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *xlsxPath, err)
		}
		if err := shopping.WriteXLSX(f, list, checked); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", *xlsxPath, err)
		}
		fmt.Fprintf(c.out, "\nWrote %s\n", *xlsxPath)
	}
	return nil
}

func (c *cli) check(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	all := fs.Bool("all", false, "Check every item on the list")
	clearAll := fs.Bool("clear", false, "Uncheck every item")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *all && *clearAll:
		return errUsage
	case *all:
		if fs.NArg() != 0 {
			return errUsage
		}
		n, err := c.session.CheckAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Checked %d items.\n", n)
		return nil
	case *clearAll:
		if fs.NArg() != 0 {
			return errUsage
		}
		if err := c.session.ClearChecked(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Cleared all checked items.")
		return nil
	}

	if fs.NArg() != 1 {
		return errUsage
	}
	key, on, err := c.session.ToggleChecked(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	state := "unchecked"
	if on {
		state = "checked"
	}
	fmt.Fprintf(c.out, "%s %s.\n", key, state)
	return nil
}

func (c *cli) history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	filter := fs.String("filter", history.FilterAll, "all, viewed, favorited or planned")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, ok := history.ParseAction(*filter); !ok && *filter != history.FilterAll {
		return fmt.Errorf("unknown history filter %q", *filter)
	}

	entries := c.session.History(*filter)
	if len(entries) == 0 {
		if *filter == history.FilterAll {
			fmt.Fprintln(c.out, "No history yet. Start exploring recipes!")
		} else {
			fmt.Fprintf(c.out, "No %s recipes yet.\n", *filter)
		}
		return nil
	}

	now := c.today()
	for _, e := range entries {
		actions := make([]string, 0, len(e.Actions))
		for _, a := range e.OrderedActions() {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(c.out, "%-8d %-40s %-28s %s\n", e.Recipe.ID, e.Recipe.Title, strings.Join(actions, ", "), history.RelativeLabel(e.LastActivity, now))
	}
	return nil
}

func (c *cli) darkMode(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errUsage
	}
	if err := c.session.SetDarkMode(ctx, args[0] == "on"); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Dark mode %s.\n", args[0])
	return nil
}

func (c *cli) watch(ctx context.Context) error {
	if c.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", c.recorder.Handler())
		srv := &http.Server{Addr: c.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.logger.Warn("metrics server shutdown failed", zap.Error(err))
			}
		}()
		c.logger.Info("serving metrics", zap.String("addr", c.cfg.MetricsAddr))
	}

	inbox, err := watch.NewInbox(c.cfg.InboxDir, func(ctx context.Context, path string, recipes []recipe.Recipe) error {
		_, err := c.session.ImportRecipes(ctx, recipes)
		return err
	}, c.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Watching %s for recipe files. Press Ctrl+C to stop.\n", c.cfg.InboxDir)
	return inbox.Run(ctx)
}

func (c *cli) stats(ctx context.Context) error {
	health, err := metrics.GetSysHealth(c.cfg.DataDir)
	if err != nil {
		return err
	}
	list, err := c.session.ShoppingList(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Recipes:        %d\n", len(c.session.Recipes()))
	fmt.Fprintf(c.out, "Favorites:      %d\n", len(c.session.Favorites()))
	fmt.Fprintf(c.out, "Planned meals:  %d\n", c.session.MealCount())
	fmt.Fprintf(c.out, "History:        %d\n", len(c.session.History(history.FilterAll)))
	fmt.Fprintf(c.out, "Shopping items: %d (%d checked)\n", list.Len(), c.session.Checked().Count())
	fmt.Fprintf(c.out, "Dark mode:      %t\n", c.session.DarkMode())
	fmt.Fprintf(c.out, "Backend:        %s\n", c.cfg.Backend)
	fmt.Fprintf(c.out, "Data dir:       %s (%s)\n", c.cfg.DataDir, health.Data)
	fmt.Fprintf(c.out, "Memory:         %s alloc, %s sys, %d GCs\n", health.Alloc, health.Sys, health.NumGC)

	if sb, ok := c.backend.(*storage.SQLiteBackend); ok {
		revs, err := sb.Revisions(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, "\nSnapshots:")
		for _, r := range revs {
			fmt.Fprintf(c.out, "  %-28s %6d B  %s  %s\n", r.Key, r.Size, r.UpdatedAt.Format(time.RFC3339), r.ID)
		}
	}
	return nil
}
