package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/ordersim/internal/engine"
	"github.com/chrisdamba/ordersim/internal/factories"
	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/chrisdamba/ordersim/internal/output"
	"github.com/chrisdamba/ordersim/internal/repositories"
	catalogpg "github.com/chrisdamba/ordersim/internal/repositories/postgres"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ordersim",
	Short: "Synthesizes a continuous stream of customer order events",
	Long: `ordersim back-fills a configurable lookback window of historical customer
order events for a multi-brand food delivery network, then keeps generating
events indefinitely at wall-clock pace, with no gap or overlap at the seam
between the two regimes.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// SIGINT/SIGTERM cancel the realtime loop at its next waiting state
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		catalog, err := catalogRepository(ctx, cfg)
		if err != nil {
			return err
		}

		sink, err := output.ForConfig(ctx, cfg)
		if err != nil {
			return err
		}
		defer sink.Close()

		eng := engine.New(cfg, catalog, sink)
		eng.ShowProgress = true
		return eng.Run(ctx)
	},
}

func catalogRepository(ctx context.Context, cfg *models.Config) (repositories.CatalogRepository, error) {
	if cfg.CatalogSource == models.CatalogSourcePostgres {
		pool, err := catalogpg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return catalogpg.NewCatalogRepository(pool), nil
	}
	return factories.NewCatalogFactory(cfg.InitialBrands, cfg.Seed), nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().Int64("seed", 42, "Random seed for reproducible runs")
	rootCmd.Flags().Float64("average-daily-orders", 500, "Average number of orders per day")
	rootCmd.Flags().Int("lookback-days", 5, "Days of history to back-fill before going realtime")
	rootCmd.Flags().Int("initial-brands", 20, "Number of brands in the generated catalog")
	rootCmd.Flags().String("catalog-source", "generated", "Catalog source: generated or postgres")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("output-path", "", "Output directory (if not using Kafka)")
	rootCmd.Flags().String("output-format", "json", "Output format: json, parquet or postgres")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
