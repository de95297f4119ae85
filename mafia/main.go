package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosuda.org/portal/portal/core/cryptoops"
	"gosuda.org/portal/sdk"

	"github.com/gosuda/portal-mafia/mafia/store"
)

var rootCmd = &cobra.Command{
	Use:   "mafia",
	Short: "Portal demo: ten-seat mafia tables with matchmaking",
	RunE:  runServer,
}

var (
	cfg       Config
	configErr error
)

func init() {
	cfg, configErr = loadConfig()

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&cfg.Relay, "server-url", cfg.Relay, "relayserver base URL(s); repeat or comma-separated (from env RELAY if set)")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "optional local HTTP port (negative to disable)")
	flags.StringVar(&cfg.Name, "name", cfg.Name, "backend display name")
	flags.StringVar(&cfg.CredKey, "cred-key", cfg.CredKey, "optional credential key to use for the listener (base64 encoded)")
	flags.StringVar(&cfg.AuthKey, "ws-auth-key", cfg.AuthKey, "optional shared secret required from clients via X-Mafia-Key header")
	flags.StringVar(&cfg.DataPath, "data-path", cfg.DataPath, "directory for phase snapshots (empty keeps them in memory only)")
	flags.Float64Var(&cfg.TimeScale, "time-scale", cfg.TimeScale, "multiplier applied to every phase duration")
	flags.DurationVar(&cfg.Retention, "retention", cfg.Retention, "drop snapshots of finished matches after this long (0 keeps them)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute mafia command")
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st == nil {
		log.Info().Msg("[mafia] no data path; snapshots stay in memory")
	}

	mgr := NewTableManager(st, cfg.timings(), cfg.Retention)
	handler := NewHTTPServer(mgr, cfg.AuthKey)

	var (
		ln     net.Listener
		client *sdk.RDClient
	)

	if servers := cfg.relayServers(); len(servers) > 0 {
		cred := sdk.NewCredential()
		if cfg.CredKey != "" {
			key, err := base64.StdEncoding.DecodeString(cfg.CredKey)
			if err != nil {
				return fmt.Errorf("decode cred key: %w", err)
			}
			cred2, err := cryptoops.NewCredentialFromPrivateKey(key)
			if err != nil {
				return fmt.Errorf("new credential from private key: %w", err)
			}
			cred = cred2
		}

		c, err := sdk.NewClient(func(rc *sdk.RDClientConfig) {
			rc.BootstrapServers = servers
		})
		if err != nil {
			return fmt.Errorf("new client: %w", err)
		}
		listener, err := c.Listen(cred, cfg.Name, []string{"http/1.1"})
		if err != nil {
			_ = c.Close()
			return fmt.Errorf("listen: %w", err)
		}
		client = c
		ln = listener
		log.Info().Strs("servers", servers).Msg("[mafia] relay listener enabled")
	} else {
		log.Info().Msg("[mafia] relay disabled; running local mode only")
	}

	mux := handler.Router()
	if ln != nil {
		go func() {
			if err := http.Serve(ln, mux); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
				log.Error().Err(err).Msg("[mafia] relay http error")
			}
		}()
	}

	var httpSrv *http.Server
	if cfg.Port >= 0 {
		httpSrv = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux, ReadHeaderTimeout: 5 * time.Second, IdleTimeout: 60 * time.Second}
		log.Info().Msgf("[mafia] serving locally at http://127.0.0.1:%d", cfg.Port)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn().Err(err).Msg("[mafia] local http stopped")
			}
		}()
	}

	<-ctx.Done()
	if ln != nil {
		_ = ln.Close()
	}
	if client != nil {
		_ = client.Close()
	}
	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("[mafia] http server shutdown error")
		}
	}
	mgr.Close()
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("[mafia] close store")
	}
	log.Info().Msg("[mafia] shutdown complete")
	return nil
}
