package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bstindex/internal/config"
	"github.com/Sumatoshi-tech/bstindex/internal/dataset"
	"github.com/Sumatoshi-tech/bstindex/internal/observability"
	"github.com/Sumatoshi-tech/bstindex/pkg/index"
	"github.com/Sumatoshi-tech/bstindex/pkg/version"
)

// ErrNoDataset is returned when a data command runs without --data.
var ErrNoDataset = errors.New("dataset file is required (use --data)")

// session is one loaded dataset with its index and telemetry.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	index     *index.Index[any, any]
	keyType   dataset.KeyType
	records   int
}

// withSession loads the dataset, runs fn and flushes telemetry, whatever fn
// returned.
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, sess *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx, cmd, opts)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, sess.providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	return fn(ctx, sess)
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*session, error) {
	if opts.dataPath == "" {
		return nil, ErrNoDataset
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	providers, err := observability.Init(ctx, observabilityConfig(cmd, cfg, opts.verbose))
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	sess, err := buildSession(ctx, cfg, providers, opts.dataPath)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(ctx))
	}

	return sess, nil
}

func buildSession(
	ctx context.Context, cfg *config.Config, providers observability.Providers, dataPath string,
) (*session, error) {
	metrics, err := index.NewMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create index metrics: %w", err)
	}

	idx := index.New(index.Config[any, any]{
		Logger:  providers.Logger,
		Metrics: metrics,
		Tracer:  providers.Tracer,
		Unique:  cfg.Index.Unique,
	})

	start := time.Now()

	records, err := dataset.Load(dataPath, cfg.KeyType())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	err = dataset.Build(ctx, records, idx)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	providers.Logger.InfoContext(ctx, "dataset indexed",
		"path", dataPath,
		"records", len(records),
		"keys", idx.Count(),
		"duration", time.Since(start),
	)

	return &session{
		cfg:       cfg,
		providers: providers,
		index:     idx,
		keyType:   cfg.KeyType(),
		records:   len(records),
	}, nil
}

func observabilityConfig(cmd *cobra.Command, cfg *config.Config, verbose bool) observability.Config {
	// Validated by LoadConfig.
	level, _ := cfg.Logging.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.LogOutput = cmd.ErrOrStderr()
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON
	obsCfg.ServiceName = cfg.Telemetry.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.ShutdownTimeout = cfg.Telemetry.ShutdownTimeout

	return obsCfg
}

// formatKey renders a key for terminal output.
func formatKey(key any) string {
	if t, ok := key.(time.Time); ok {
		return t.Format(time.RFC3339)
	}

	return fmt.Sprint(key)
}

// formatValue renders a stored value: strings verbatim, everything else as
// JSON when possible.
func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(data)
}
