// Command deadlinks lists the bookmarks of a Pocket export whose URL no longer resolves
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aktagon/pocket2omnivore/internal/importer"
	"github.com/aktagon/pocket2omnivore/internal/output"
	"github.com/aktagon/pocket2omnivore/internal/pocket"
)

const defaultUserAgent = "pocket2omnivore/1.0 (+https://github.com/aktagon/pocket2omnivore)"

var (
	configFile string
	timeout    time.Duration
	delay      time.Duration
)

// DeadLink is a row whose URL failed the liveness check
type DeadLink struct {
	Row    int
	URL    string
	Reason string
}

var rootCmd = &cobra.Command{
	Use:           "deadlinks <export.csv>",
	Short:         "List dead URLs in a Pocket export",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := pocket.ReadFile(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		userAgent, err := loadUserAgent(cmd)
		if err != nil {
			return err
		}

		probe := importer.NewLivenessProbe(nil, userAgent)
		dead, err := scan(ctx, probe, rows, timeout, delay, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if len(dead) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "All %d URLs are alive\n", len(rows))
			return nil
		}

		table := output.NewTable(cmd.OutOrStdout(), []string{"Row", "URL", "Reason"})
		for _, d := range dead {
			table.AddRow(strconv.Itoa(d.Row), d.URL, d.Reason)
		}
		if err := table.Render(); err != nil {
			return err
		}
		return fmt.Errorf("%d of %d URLs are dead", len(dead), len(rows))
	},
}

// scan probes every valid URL in order. Rows that fail validation are
// reported as dead with the validation error as reason.
func scan(ctx context.Context, probe importer.Prober, rows []importer.RawRecord, timeout, delay time.Duration, progress io.Writer) ([]DeadLink, error) {
	var dead []DeadLink
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return dead, err
		}

		row := i + 1
		fmt.Fprintf(progress, "\r[%d/%d]", row, len(rows))

		rec, err := importer.Validate(row, raw)
		if err != nil {
			dead = append(dead, DeadLink{Row: row, URL: raw[importer.ColumnURL], Reason: err.Error()})
			continue
		}

		result := probe.Probe(ctx, rec.URL, timeout)
		if !result.IsAlive {
			dead = append(dead, DeadLink{Row: row, URL: rec.URL, Reason: result.Reason})
		}

		if delay > 0 && i < len(rows)-1 {
			if err := importer.Wait(ctx, delay); err != nil {
				return dead, err
			}
		}
	}
	fmt.Fprintln(progress)
	return dead, nil
}

// loadUserAgent reads http.user_agent from the importer's settings file,
// POCKET2OMNIVORE_HTTP_USER_AGENT or --user-agent, in increasing priority
func loadUserAgent(cmd *cobra.Command) (string, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("http.user_agent", defaultUserAgent)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("reading settings file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("pocket2omnivore")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pocket2omnivore")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return "", fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	v.SetEnvPrefix("POCKET2OMNIVORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("http.user_agent", cmd.Flags().Lookup("user-agent")); err != nil {
		return "", fmt.Errorf("binding flag user-agent: %w", err)
	}
	return v.GetString("http.user_agent"), nil
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "settings file (default is ./pocket2omnivore.yaml)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", importer.DefaultURLTimeout, "timeout of each check")
	rootCmd.Flags().DurationVar(&delay, "delay", 0, "pause between checks")
	rootCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent sent with each check")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
