package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/jtrack/internal/analytics"
	"github.com/Tiliavir/jtrack/internal/github"
	"github.com/Tiliavir/jtrack/internal/stats"
	"github.com/Tiliavir/jtrack/internal/storage"
)

var dashboardTimeout time.Duration

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show statistics, recent applications and project counters",
	Long: `Show the dashboard: application statistics, the most recent applications,
and, when configured, the GitHub star count and the 30-day visitor count.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardTimeout, "timeout", 5*time.Second, "Timeout for remote counters")
}

// counters holds the optional remote figures. Empty fields were unavailable.
type counters struct {
	stars       *github.Stars
	repoURL     string
	visitors    *int
	visitorsErr error
}

func runDashboard(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), dashboardTimeout)
	defer cancel()
	c := fetchCounters(ctx, newGitHubClient(ctx, st.kv), newAnalyticsClient(ctx))

	apps := st.apps.All()
	now := st.now()
	w := cmd.OutOrStdout()

	printSummary(w, stats.Summarize(apps, now))
	fmt.Fprintln(w)

	recent := apps
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	fmt.Fprintln(w, "Recent applications")
	if err := printApplications(w, recent, now); err != nil {
		return err
	}

	printCounters(w, c)
	return nil
}

func newGitHubClient(ctx context.Context, kv storage.KV) *github.Client {
	return github.NewClient(ctx, github.Options{
		Owner:  cfg.GitHub.Owner,
		Repo:   cfg.GitHub.Repo,
		Token:  cfg.GitHub.Token,
		Cache:  kv,
		Logger: logger,
	})
}

func newAnalyticsClient(ctx context.Context) *analytics.Client {
	return analytics.NewClient(ctx, analytics.Options{
		Token:     cfg.Analytics.Token,
		ProjectID: cfg.Analytics.ProjectID,
		TeamID:    cfg.Analytics.TeamID,
	})
}

// fetchCounters queries both collaborators concurrently. Failures are logged
// and leave the counter empty; they never fail the dashboard.
func fetchCounters(ctx context.Context, gh *github.Client, va *analytics.Client) counters {
	var c counters
	g, ctx := errgroup.WithContext(ctx)

	if gh.Configured() {
		c.repoURL = gh.RepoURL()
		g.Go(func() error {
			s, err := gh.Stars(ctx)
			if err != nil {
				logger.Warn("github stars unavailable", zap.Error(err))
				return nil
			}
			c.stars = &s
			return nil
		})
	}
	if va.Configured() {
		g.Go(func() error {
			n, err := va.Visitors(ctx)
			if err != nil {
				c.visitorsErr = err
				return nil
			}
			c.visitors = &n
			return nil
		})
	}

	_ = g.Wait()
	return c
}

func printCounters(w io.Writer, c counters) {
	if c.repoURL == "" && c.visitors == nil && c.visitorsErr == nil {
		return
	}
	fmt.Fprintln(w)
	if c.repoURL != "" {
		if c.stars != nil {
			suffix := ""
			if c.stars.Stale {
				suffix = " (cached)"
			}
			fmt.Fprintf(w, "★ %s stars%s – %s\n", humanize.Comma(int64(c.stars.Count)), suffix, c.repoURL)
		} else {
			fmt.Fprintf(w, "★ stars unavailable – %s\n", c.repoURL)
		}
	}
	switch {
	case c.visitors != nil:
		fmt.Fprintf(w, "%s visitors in the last 30 days\n", humanize.Comma(int64(*c.visitors)))
	case c.visitorsErr != nil:
		var upstream *analytics.UpstreamError
		if errors.As(c.visitorsErr, &upstream) {
			fmt.Fprintf(w, "Visitors unavailable (HTTP %d)\n", upstream.StatusCode)
		} else {
			fmt.Fprintf(w, "Visitors unavailable: %v\n", c.visitorsErr)
		}
	}
}
