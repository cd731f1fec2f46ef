package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/i18n"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/settings"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/weather"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/web"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/web/templates"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/websearch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides LISTEN_ADDR")
	serveCmd.Flags().Bool("secure-cookies", false, "mark the session cookie Secure (serve behind TLS)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(logger)

	prefs, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return err
	}
	bundle, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	if cfg.WeatherAPIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set; weather lookups will fail")
	}

	server := web.NewServer(web.Deps{
		Accounts:   a.accounts,
		Workspace:  a.workspace,
		Assistant:  a.assistant,
		Weather:    weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, logger),
		Search:     websearch.NewSearcher(strings.TrimSuffix(cfg.SearchBaseURL, "/")+"/", "", logger),
		PhotoStore: a.photos,
		Settings:   prefs,
		Bundle:     bundle,
	}, templates.FS, logger)

	// Flags are only registered on serve; the root command runs with defaults.
	addr := cfg.ListenAddr
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Value.String() != "" {
		addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("secure-cookies"); f != nil {
		server.SecureCookies(f.Value.String() == "true")
	}

	if err := server.ListenAndServe(ctx, addr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}
