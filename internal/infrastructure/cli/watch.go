package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/watch"
)

var (
	watchDebounce time.Duration
	watchFor      time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute the burn-down whenever workspace files change",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(root)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if watchFor > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchFor)
			defer cancel()
		}

		recompute := func(reason string) {
			// Settings may have changed together with config.yaml.
			svc, err := loadServices(root)
			if err != nil {
				fmt.Printf("[%s] %s: %v\n", time.Now().Format("15:04:05"), reason, err)
				return
			}
			r, err := svc.BurnDown.BuildAndSave(ctx)
			if err != nil {
				fmt.Printf("[%s] %s: %v\n", time.Now().Format("15:04:05"), reason, MapError(err))
				return
			}
			m := r.Metrics
			fmt.Printf("[%s] %s: worked %s of %s, delay %s (%s)\n",
				time.Now().Format("15:04:05"), reason,
				formatWork(m.Worked, r.DayLength), formatWork(m.Estimated, r.DayLength),
				formatWork(m.ManDelay, r.DayLength), m.Trend)
			if r.Watermark != "" {
				fmt.Println(warningStyle.Render(r.Watermark))
			}
		}

		w, err := watch.New(services.Workspace.Repo.Dir(), func(c watch.Change) {
			names := make([]string, len(c.Files))
			for i, f := range c.Files {
				names[i] = filepath.Base(f)
			}
			recompute(strings.Join(names, ", ") + " changed")
		}, watch.WithDebounce(watchDebounce), watch.WithLogger(log.With().Str("cmp", "watch").Logger()))
		if err != nil {
			return err
		}

		fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", services.Workspace.Repo.Dir())
		recompute("initial")
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before recomputing")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "Stop watching after this duration (0 watches until interrupted)")
	RootCmd.AddCommand(watchCmd)
}
