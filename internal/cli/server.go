package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/config"
	"airport-cyber-crisis/internal/infra/file"
	"airport-cyber-crisis/internal/infra/memory"
	transport "airport-cyber-crisis/internal/transport/http"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	bank, err := app.NewQuestionBank(ctx, questionLoader(cfg.Game))
	if err != nil {
		return err
	}

	rules := gameRules(cfg.Game)
	service := app.NewGameService(
		b.sessions,
		bank,
		app.NewLeaderboard(b.storage, cfg.Game.LeaderboardSize),
		app.NewNameMemory(b.storage),
		rules,
		clockwork.NewRealClock(),
	)

	server := &http.Server{
		Addr:    ":" + finalPort,
		Handler: transport.NewRouter(service, b.dependencies),
		// No write timeout: game sockets stay open for the whole run.
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", server.Addr).
			Int("questions", bank.Len()).
			Int("total_seconds", rules.TotalSeconds).
			Int("penalty_seconds", rules.PenaltySeconds).
			Msg("starting game server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func questionLoader(cfg config.GameConfig) app.QuestionLoader {
	if cfg.Questions != "" {
		return file.NewQuestionLoader(cfg.Questions)
	}
	return memory.NewStaticQuestionLoader(memory.AirportScenarios())
}

func gameRules(cfg config.GameConfig) app.Rules {
	rules := app.DefaultRules()
	defaults := time.Duration(rules.TotalSeconds) * time.Second
	rules.TotalSeconds = int(config.TTLDuration(cfg.TotalTime, defaults) / time.Second)
	rules.PenaltySeconds = int(config.TTLDuration(cfg.Penalty, time.Duration(rules.PenaltySeconds)*time.Second) / time.Second)
	if cfg.PointsPerCorrect > 0 {
		rules.PointsPerCorrect = cfg.PointsPerCorrect
	}
	return rules
}
