package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/sirupsen/logrus"

	"github.com/coinlens/coinlens/internal/config"
	"github.com/coinlens/coinlens/internal/controller"
	"github.com/coinlens/coinlens/internal/display"
	"github.com/coinlens/coinlens/internal/favorites"
	"github.com/coinlens/coinlens/internal/market"
)

const tableRows = 15

// runDashboard starts the controller and drives the interactive menu loop.
func runDashboard(ctx context.Context, mgr *config.Manager, cfg config.Config) error {
	store, err := favorites.OpenSQLite(cfg.FavoritesDBPath())
	if err != nil {
		return fmt.Errorf("open favorites store: %w", err)
	}
	defer store.Close()

	favs, err := favorites.NewService(store)
	if err != nil {
		return err
	}

	ctrl := controller.New(newClient(cfg), favs, controller.Options{
		PollInterval:    cfg.PollInterval.Std(),
		StalenessWindow: cfg.StalenessWindow.Std(),
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay.Std(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go ctrl.Run(ctx)

	if err := mgr.Watch(ctx, func(config.Config) {
		logrus.Info("configuration reloaded; restart to apply refresh timings")
	}); err != nil {
		logrus.WithError(err).Warn("config watch unavailable")
	}

	for {
		view, err := waitSettled(ctx, ctrl)
		if err != nil {
			return nil // context cancelled
		}
		render(view)

		action, err := promptAction()
		if err != nil {
			// survey returns an error on interrupt
			return nil
		}

		switch action {
		case actionRefresh:
			ctrl.Refresh(ctx)
		case actionSearch:
			term, err := promptSearch(view.Search)
			if err != nil {
				return nil
			}
			ctrl.SetSearch(ctx, term)
		case actionSort:
			key, err := promptSortKey()
			if err != nil {
				return nil
			}
			ctrl.SetSortKey(ctx, key)
		case actionSelect:
			id, err := promptAsset(view)
			if err != nil {
				return nil
			}
			if id != "" {
				ctrl.Select(ctx, id)
			}
		case actionRange:
			r, err := promptRange()
			if err != nil {
				return nil
			}
			ctrl.SetRange(ctx, r)
		case actionStyle:
			style, err := promptStyle()
			if err != nil {
				return nil
			}
			ctrl.SetChartStyle(ctx, style)
		case actionFavorite:
			id, err := promptAsset(view)
			if err != nil {
				return nil
			}
			if id != "" {
				ctrl.ToggleFavorite(ctx, id)
			}
		case actionQuit:
			return nil
		}
	}
}

// waitSettled polls the controller until no fetch is in flight, so the menu
// is not shown over a half-loaded screen. Gives up after a few seconds and
// renders whatever state exists.
func waitSettled(ctx context.Context, ctrl *controller.Controller) (controller.View, error) {
	deadline := time.Now().Add(15 * time.Second)
	for {
		view, err := ctrl.View(ctx)
		if err != nil {
			return controller.View{}, err
		}
		loading := view.AssetsStatus == controller.StatusLoading ||
			view.ChartStatus == controller.StatusLoading
		if !loading || time.Now().After(deadline) {
			return view, nil
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return controller.View{}, ctx.Err()
		}
	}
}

func render(view controller.View) {
	fmt.Print("\033[2J\033[H")
	fmt.Print(display.RenderTable(view, tableRows))
	fmt.Print(display.RenderDetail(view))
	fmt.Print(display.RenderChart(view))
}

type action string

const (
	actionRefresh  action = "Refresh now"
	actionSearch   action = "Search"
	actionSort     action = "Sort"
	actionSelect   action = "Select asset"
	actionRange    action = "Chart range"
	actionStyle    action = "Chart style"
	actionFavorite action = "Toggle favorite"
	actionQuit     action = "Quit"
)

func promptAction() (action, error) {
	var choice string
	err := survey.AskOne(&survey.Select{
		Message: "Action:",
		Options: []string{
			string(actionRefresh), string(actionSearch), string(actionSort),
			string(actionSelect), string(actionRange), string(actionStyle),
			string(actionFavorite), string(actionQuit),
		},
	}, &choice)
	return action(choice), err
}

func promptSearch(current string) (string, error) {
	var term string
	err := survey.AskOne(&survey.Input{
		Message: "Search name or symbol (empty clears):",
		Default: current,
	}, &term)
	return term, err
}

func promptSortKey() (market.SortKey, error) {
	options := make([]string, 0, 4)
	for _, k := range market.SortKeys() {
		options = append(options, string(k))
	}
	var choice string
	if err := survey.AskOne(&survey.Select{
		Message: "Sort by:",
		Options: options,
	}, &choice); err != nil {
		return "", err
	}
	key, _ := market.ParseSortKey(choice)
	return key, nil
}

func promptAsset(view controller.View) (string, error) {
	if len(view.Assets) == 0 {
		fmt.Println("no assets loaded yet")
		return "", nil
	}

	limit := len(view.Assets)
	if limit > 30 {
		limit = 30
	}
	options := make([]string, 0, limit)
	byLabel := make(map[string]string, limit)
	for _, a := range view.Assets[:limit] {
		label := fmt.Sprintf("%s — %s", strings.ToUpper(a.Symbol), a.Name)
		options = append(options, label)
		byLabel[label] = a.ID
	}

	var choice string
	if err := survey.AskOne(&survey.Select{
		Message: "Asset:",
		Options: options,
	}, &choice); err != nil {
		return "", err
	}
	return byLabel[choice], nil
}

func promptRange() (market.Range, error) {
	options := make([]string, 0, 4)
	byLabel := make(map[string]market.Range, 4)
	for _, r := range market.Ranges() {
		label := r.String()
		options = append(options, label)
		byLabel[label] = r
	}

	var choice string
	if err := survey.AskOne(&survey.Select{
		Message: "Chart range:",
		Options: options,
	}, &choice); err != nil {
		return 0, err
	}
	return byLabel[choice], nil
}

func promptStyle() (market.ChartStyle, error) {
	var choice string
	if err := survey.AskOne(&survey.Select{
		Message: "Chart style:",
		Options: []string{string(market.ChartArea), string(market.ChartBar)},
	}, &choice); err != nil {
		return "", err
	}
	style, _ := market.ParseChartStyle(choice)
	return style, nil
}
