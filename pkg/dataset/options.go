package dataset

import (
	"time"

	variation "github.com/goliatone/go-variation"
	"github.com/goliatone/go-variation/pkg/activity"
)

// DefaultSettleDelay matches variation.DefaultSettleDelay.
const DefaultSettleDelay = variation.DefaultSettleDelay

// Option configures a Coordinator.
type Option func(*settings)

type settings struct {
	settleDelay time.Duration
	baseSeed    int
	source      SeedSource
	policy      variation.Policy
	logger      variation.Logger
	emitter     *activity.Emitter
	actorID     string
	tenantID    string
}

func defaultSettings() settings {
	return settings{
		settleDelay: DefaultSettleDelay,
		policy:      variation.DefaultPolicy(),
		logger:      variation.NopLogger(),
	}
}

// WithSettleDelay sets the pause between clearing the list and fetching
// during Reload. Negative values are treated as zero.
func WithSettleDelay(delay time.Duration) Option {
	return func(s *settings) {
		if delay < 0 {
			delay = 0
		}
		s.settleDelay = delay
	}
}

// WithBaseSeed sets the seed Reload falls back to when neither an explicit
// seed nor the SeedSource provides one.
func WithBaseSeed(seed int) Option {
	return func(s *settings) {
		s.baseSeed = seed
	}
}

// WithSeedSource sets the runtime seed consulted by Reload.
func WithSeedSource(source SeedSource) Option {
	return func(s *settings) {
		s.source = source
	}
}

// WithPolicy sets the variation policy. A disabled policy pins every load to
// the canonical seed.
func WithPolicy(policy variation.Policy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// WithConfig applies the policy and settle delay of cfg.
func WithConfig(cfg variation.Config) Option {
	return func(s *settings) {
		s.policy = cfg.Policy()
		s.settleDelay = cfg.SettleDelay
	}
}

// WithLogger sets the logger.
func WithLogger(logger variation.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEmitter sets the activity emitter for lifecycle events.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(s *settings) {
		s.emitter = emitter
	}
}

// WithActivityHooks is shorthand for an enabled emitter over hooks on the
// default channel.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(s *settings) {
		s.emitter = activity.NewEmitter(activity.Hooks(hooks), activity.Config{Enabled: true})
	}
}

// WithActor stamps actor and tenant IDs on emitted events.
func WithActor(actorID, tenantID string) Option {
	return func(s *settings) {
		s.actorID = actorID
		s.tenantID = tenantID
	}
}
