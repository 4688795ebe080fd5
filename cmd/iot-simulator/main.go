// Command iot-simulator posts randomized wearable readings to the API.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"techknowledgepills/pkg/client/api"
	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/model"
)

type options struct {
	server     string
	userID     string
	interval   time.Duration
	count      int
	deviceType string
	deviceID   string
	deviceKey  string
	stress     bool
	seed       int64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "iot-simulator",
		Short:        "Send simulated health metrics for a user",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.server, "server", "http://localhost:8080", "API base URL")
	f.StringVar(&opts.userID, "user-id", "", "user to report readings for")
	f.DurationVar(&opts.interval, "interval", 5*time.Second, "time between readings")
	f.IntVar(&opts.count, "count", 0, "number of readings to send (0 runs until interrupted)")
	f.StringVar(&opts.deviceType, "device-type", "simulator", "reported device type")
	f.StringVar(&opts.deviceID, "device-id", "", "reported device id")
	f.StringVar(&opts.deviceKey, "device-key", os.Getenv("IOT_API_KEY"), "value for the X-Device-Key header")
	f.BoolVar(&opts.stress, "simulate-stress", os.Getenv("SIMULATE_STRESS") == "true", "let afternoon stress raise heart rate and cut sleep and HRV")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the clock)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

// noSession is the token store of an anonymous device
type noSession struct{}

func (noSession) Token() string               { return "" }
func (noSession) RefreshToken() string        { return "" }
func (noSession) SetTokens(_, _ string) error { return nil }
func (noSession) Clear() error                { return nil }

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	if opts.interval <= 0 {
		return errors.New("interval must be positive")
	}

	cfg := config.Defaults()
	cfg.ServerURL = opts.server
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := api.NewService(cfg, api.NewHTTPClient(cfg, noSession{}, logger), api.NewCodec(), noSession{}, logger)
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := NewReadingGenerator(rand.New(rand.NewPCG(uint64(seed), uint64(seed))), opts.stress)
	pace := rate.NewLimiter(rate.Every(opts.interval), 1)

	for sent := 0; opts.count == 0 || sent < opts.count; sent++ {
		if err := pace.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("Simulator stopped", zap.Int("sent", sent))
				return nil
			}
			return err
		}

		req := gen.Next(opts.userID, opts.deviceType, opts.deviceID)
		metric, err := svc.SubmitHealthMetric(ctx, req, opts.deviceKey)
		if err != nil {
			logger.Warn("Failed to submit reading", zap.Error(err))
			continue
		}
		sleep := "-"
		if req.SleepHours != nil {
			sleep = fmt.Sprintf("%.1fh", *req.SleepHours)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s hr=%d sleep=%s hrv=%dms temp=%.1f steps=%d stress=%d -> %s\n",
			metric.Timestamp.Local().Format(time.TimeOnly),
			*req.HeartRate, sleep, *req.HeartRateVariability, *req.BodyTemperature, *req.Steps,
			gen.Stress(), metric.ID,
		)
	}
	return nil
}

// ReadingGenerator imitates one wearable over a day. Steps accumulate from
// reading to reading, and a 0..100 stress score climbs between 14:00 and
// 18:00 and decays otherwise. With stress simulation on, a score above 50
// raises heart rate and shortens sleep, and above 70 it depresses HRV further.
type ReadingGenerator struct {
	rnd      *rand.Rand
	simulate bool
	now      func() time.Time

	steps  int
	stress int
}

func NewReadingGenerator(rnd *rand.Rand, simulateStress bool) *ReadingGenerator {
	return &ReadingGenerator{rnd: rnd, simulate: simulateStress, now: time.Now}
}

// Stress returns the current 0..100 stress score
func (g *ReadingGenerator) Stress() int {
	return g.stress
}

// Next advances the device state and returns one reading
func (g *ReadingGenerator) Next(userID, deviceType, deviceID string) model.HealthMetricRequest {
	now := g.now()
	hour := now.Hour()
	g.driftStress(hour)

	hr := g.heartRate()
	steps := g.accumulateSteps(hour)
	hrv := g.heartRateVariability()
	temp := round1(36.6 + g.uniform(-0.3, 0.5))
	ts := now.UTC()

	req := model.HealthMetricRequest{
		UserID:               userID,
		Timestamp:            &ts,
		HeartRate:            &hr,
		Steps:                &steps,
		HeartRateVariability: &hrv,
		BodyTemperature:      &temp,
	}
	// sleep is only tracked overnight
	if hour >= 22 || hour < 8 {
		sleep := g.sleepHours()
		req.SleepHours = &sleep
	}
	if deviceType != "" {
		req.DeviceType = &deviceType
	}
	if deviceID != "" {
		req.DeviceID = &deviceID
	}
	return req
}

func (g *ReadingGenerator) driftStress(hour int) {
	if hour >= 14 && hour <= 18 {
		g.stress = min(100, g.stress+g.between(1, 5))
		return
	}
	g.stress = max(0, g.stress-g.between(1, 3))
}

func (g *ReadingGenerator) stressed(threshold int) bool {
	return g.simulate && g.stress > threshold
}

func (g *ReadingGenerator) heartRate() int {
	switch {
	case g.stressed(50):
		return g.between(95, 120)
	case g.rnd.Float64() < 0.3: // active
		return g.between(100, 140)
	default:
		return g.between(60, 90)
	}
}

func (g *ReadingGenerator) accumulateSteps(hour int) int {
	switch {
	case hour < 6:
		g.steps += g.between(0, 50)
	case hour < 12:
		g.steps += g.between(100, 500)
	case hour < 18:
		g.steps += g.between(200, 800)
	case hour < 22:
		g.steps += g.between(100, 400)
	default:
		g.steps += g.between(0, 100)
	}
	return g.steps
}

func (g *ReadingGenerator) sleepHours() float64 {
	if g.stressed(50) {
		return round1(g.uniform(4.5, 6.5))
	}
	return round1(g.uniform(7, 9))
}

func (g *ReadingGenerator) heartRateVariability() int {
	switch {
	case g.stressed(70):
		return g.between(15, 25)
	case g.stressed(50):
		return g.between(25, 35)
	default:
		return g.between(40, 60)
	}
}

// between returns an int in [lo, hi]
func (g *ReadingGenerator) between(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *ReadingGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
