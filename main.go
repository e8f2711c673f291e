/* main.go
 * The "main" method for running race control: the HTTP console, the results webhook and the discord bot
 * Usage: go run . -config="config.yaml" -bot="true"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"race-control/api/api"
	"race-control/api/auth"
	"race-control/api/console"
	"race-control/api/logic"
	"race-control/api/metrics"
	"race-control/bot"
	"race-control/config"
	"race-control/logger"
	"race-control/web"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	envErr := godotenv.Load()

	//Flags
	configPtr := flag.String("config", "", "Path to a yaml config file. Falls back to $RACECONTROL_CONFIG")
	botPtr := flag.String("bot", "true", "Run the discord bot: takes true or false as argument")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		bootLog := logger.NewConsole("info")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel, os.Stdout)
	if envErr != nil {
		log.Warn().Msg("no .env file found, reading settings from the environment")
	}

	runBot, err := convertStrToBool(*botPtr)
	if err != nil {
		log.Fatal().Str("bot", *botPtr).Msg("invalid \"bot\" flag. Should be true or false")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runBot, log); err != nil {
		log.Fatal().Err(err).Msg("race control stopped with an error")
	}
}

// run wires the store, auth, consoles, bot and http server together and blocks until ctx is cancelled
func run(ctx context.Context, cfg *config.Config, runBot bool, log zerolog.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a, err := api.NewAPI(startCtx, cfg.DBName, cfg.MongoURI, cfg.Season, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Store.GetClient().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongo")
		}
	}()
	a.Colors = logic.DefaultTeamColors().Merge(cfg.TeamColors)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics, err = metrics.New(registry)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	var federated auth.FederatedClient
	if cfg.FederatedEnabled() {
		oidcClient, err := auth.NewOIDCClient(startCtx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			return err
		}
		federated = oidcClient
	}
	provider := auth.NewProvider(a.Store, tokens, federated, log)

	consoles := console.NewManager(a, log)
	defer consoles.Close()

	if runBot && cfg.DiscordToken == "" {
		log.Warn().Msg("no discord_token set, running without the bot")
		runBot = false
	}
	if runBot {
		discordBot, err := bot.NewBot(cfg.DiscordToken, a, cfg.DiscordStewardChannel, log)
		if err != nil {
			return err
		}
		a.Notifier = discordBot
		go func() {
			if err := discordBot.Run(ctx); err != nil {
				log.Error().Err(err).Msg("discord bot stopped")
			}
		}()
	}

	return web.Start(ctx, web.Config{
		Addr:          cfg.Addr,
		API:           a,
		Auth:          provider,
		Consoles:      consoles,
		Gatherer:      registry,
		WebhookSecret: cfg.WebhookSecret,
		ChatRate:      cfg.ChatRate,
		ChatBurst:     cfg.ChatBurst,
		SecureCookies: cfg.SecureCookies,
		Log:           log,
	})
}
