package providers

import (
	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/sources"
)

// ProvideFanout provides the ticketing source fan-out. Providers without
// credentials are skipped so a partially configured instance still serves
// whatever sources it can.
func ProvideFanout(i do.Injector) (*sources.Fanout, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := sources.Options{
		Timeout: cfg.Sources.RequestTimeout,
		RPS:     cfg.Sources.RateLimitRPS,
		Burst:   cfg.Sources.RateLimitBurst,
		Logger:  log.Logger,
	}

	var clients []sources.Client
	if cfg.Sources.TicketmasterAPIKey != "" {
		clients = append(clients, sources.WithBreaker(sources.NewTicketmaster(cfg.Sources.TicketmasterAPIKey, opts), log.Logger))
	}
	if cfg.Sources.SeatGeekClientID != "" {
		clients = append(clients, sources.WithBreaker(sources.NewSeatGeek(cfg.Sources.SeatGeekClientID, cfg.Sources.SeatGeekSecret, opts), log.Logger))
	}
	if cfg.Sources.BandsintownAppID != "" {
		clients = append(clients, sources.WithBreaker(sources.NewBandsintown(cfg.Sources.BandsintownAppID, opts), log.Logger))
	}

	fanout := sources.NewFanout(log.Logger, clients...)
	if len(clients) == 0 {
		log.Warn("No ticketing sources configured, concert search will return empty results")
	} else {
		log.Info("Ticketing sources configured", "sources", fanout.Sources())
	}

	return fanout, nil
}

// ProvideSpotify provides the Spotify listening-data connector, or nil
// when no credentials are configured.
func ProvideSpotify(i do.Injector) (*sources.Spotify, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Sources.SpotifyClientID == "" || cfg.Sources.SpotifyClientSecret == "" {
		log.Info("Spotify credentials not configured, profile sync limited to manual picks")
		return nil, nil
	}

	opts := sources.Options{
		Timeout: cfg.Sources.RequestTimeout,
		RPS:     cfg.Sources.RateLimitRPS,
		Burst:   cfg.Sources.RateLimitBurst,
		Logger:  log.Logger,
	}

	return sources.NewSpotify(cfg.Sources.SpotifyClientID, cfg.Sources.SpotifyClientSecret, opts), nil
}
