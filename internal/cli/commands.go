package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coinlens/coinlens/internal/coingecko"
	"github.com/coinlens/coinlens/internal/config"
	"github.com/coinlens/coinlens/internal/controller"
	"github.com/coinlens/coinlens/internal/display"
	"github.com/coinlens/coinlens/internal/market"
)

const version = "1.0.0"

// NewRootCmd creates the root command. Running it with no subcommand starts
// the interactive dashboard.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "coinlens",
		Short: "coinlens - terminal cryptocurrency market dashboard",
		Long: `coinlens polls a CoinGecko-compatible API for the top cryptocurrency
markets and renders a sortable, searchable asset table plus historical price
charts, with a persistent favorites set.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), mgr, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	}

	rootCmd.AddCommand(newTopCmd(&configPath))
	rootCmd.AddCommand(newChartCmd(&configPath))
	rootCmd.AddCommand(newConfigCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig builds the effective configuration: file-backed manager first,
// environment overrides on top.
func loadConfig(configPath string) (*config.Manager, config.Config, error) {
	mgr, err := config.NewManager(config.WithConfigPath(configPath))
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	cfg := mgr.Get()
	cfg.LoadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, config.Config{}, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, config.Config{}, fmt.Errorf("create data dir: %w", err)
	}
	return mgr, cfg, nil
}

func newClient(cfg config.Config) *coingecko.Client {
	return coingecko.New(cfg.APIBaseURL, coingecko.WithTimeout(cfg.RequestTimeout.Std()))
}

// newTopCmd prints a one-shot asset table.
func newTopCmd(configPath *string) *cobra.Command {
	var sortFlag, searchFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the top assets table once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			key, ok := market.ParseSortKey(sortFlag)
			if !ok {
				return fmt.Errorf("unknown sort key %q (use one of: %s)", sortFlag, sortKeyNames())
			}

			assets, err := newClient(cfg).ListTopAssets(cmd.Context())
			if err != nil {
				return err
			}

			view := controller.View{
				Assets:       market.SortBy(market.Filter(assets, searchFlag), key),
				AssetsStatus: controller.StatusReady,
				Search:       searchFlag,
				SortKey:      key,
				Favorites:    map[string]bool{},
			}
			fmt.Print(display.RenderTable(view, limit))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", string(market.SortByMarketCap), "Sort key: "+sortKeyNames())
	cmd.Flags().StringVar(&searchFlag, "search", "", "Filter by name or symbol substring")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum rows to print")
	return cmd
}

// newChartCmd prints a one-shot chart for one asset.
func newChartCmd(configPath *string) *cobra.Command {
	var days int
	var styleFlag string

	cmd := &cobra.Command{
		Use:   "chart [ASSET-ID]",
		Short: "Print a historical price chart for an asset",
		Long: `Print a historical price chart for an asset, identified by its API id.
Example: coinlens chart bitcoin --days=30 --style=bar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			r, ok := market.ParseRange(days)
			if !ok {
				return fmt.Errorf("unsupported range %d (use 1, 7, 30 or 90)", days)
			}
			style, ok := market.ParseChartStyle(styleFlag)
			if !ok {
				return fmt.Errorf("unknown chart style %q (use area or bar)", styleFlag)
			}

			series, err := newClient(cfg).GetChartSeries(cmd.Context(), args[0], r)
			if err != nil {
				return err
			}

			view := controller.View{
				Chart:       series,
				ChartStatus: controller.StatusReady,
				Selected:    args[0],
				Range:       r,
				Style:       style,
			}
			fmt.Print(display.RenderChart(view))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Range in days: 1, 7, 30 or 90")
	cmd.Flags().StringVar(&styleFlag, "style", string(market.ChartArea), "Chart style: area or bar")
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			fmt.Printf("Config file:       %s\n", mgr.Path())
			fmt.Printf("API base URL:      %s\n", cfg.APIBaseURL)
			fmt.Printf("Data directory:    %s\n", cfg.DataDir)
			fmt.Printf("Poll interval:     %s\n", cfg.PollInterval.Std())
			fmt.Printf("Staleness window:  %s\n", cfg.StalenessWindow.Std())
			fmt.Printf("Request timeout:   %s\n", cfg.RequestTimeout.Std())
			fmt.Printf("Max retries:       %d\n", cfg.MaxRetries)
			fmt.Printf("Debug:             %t\n", cfg.Debug)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("configuration is valid")
			return nil
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("coinlens v%s\n", version)
		},
	}
}

func sortKeyNames() string {
	names := make([]string, 0, 4)
	for _, k := range market.SortKeys() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
