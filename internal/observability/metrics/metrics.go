package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	purchases     metric.Int64Counter
	keysAdded     metric.Int64Counter
	logins        metric.Int64Counter
	steamImports  metric.Int64Counter
	loginsDenied  metric.Int64Counter
	friendsLinked metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "gamevault"
	}
	meter := provider.Meter(name)

	purchases, err := meter.Int64Counter("gamevault_purchases_total")
	if err != nil {
		return nil, err
	}
	keysAdded, err := meter.Int64Counter("gamevault_activation_keys_added_total")
	if err != nil {
		return nil, err
	}
	logins, err := meter.Int64Counter("gamevault_logins_total")
	if err != nil {
		return nil, err
	}
	steamImports, err := meter.Int64Counter("gamevault_steam_imports_total")
	if err != nil {
		return nil, err
	}
	loginsDenied, err := meter.Int64Counter("gamevault_logins_rate_limited_total")
	if err != nil {
		return nil, err
	}
	friendsLinked, err := meter.Int64Counter("gamevault_friendships_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		purchases:     purchases,
		keysAdded:     keysAdded,
		logins:        logins,
		steamImports:  steamImports,
		loginsDenied:  loginsDenied,
		friendsLinked: friendsLinked,
	}, nil
}

// RecordPurchase increments purchase counts by outcome.
func (m *Metrics) RecordPurchase(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.purchases.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordKeysAdded increments activation key intake counts.
func (m *Metrics) RecordKeysAdded(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.keysAdded.Add(ctx, count)
}

// RecordLogin increments login attempt counts by result.
func (m *Metrics) RecordLogin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.logins.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLoginRateLimited increments throttled login counts.
func (m *Metrics) RecordLoginRateLimited(ctx context.Context) {
	if m == nil {
		return
	}
	m.loginsDenied.Add(ctx, 1)
}

// RecordSteamImport increments catalog import counts by result.
func (m *Metrics) RecordSteamImport(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.steamImports.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFriendship increments friendship link counts.
func (m *Metrics) RecordFriendship(ctx context.Context) {
	if m == nil {
		return
	}
	m.friendsLinked.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"outcome":     {},
	"result":      {},
	"endpoint":    {},
	"status_code": {},
	"http.method": {},
	"http.route":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
