package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

// Runner drives one refresh: every stage in order, every enabled plugin
// within each stage. Plugin failures are contained; failures of the
// runner's own bookkeeping (role application, snapshot write) are not.
type Runner struct {
	registry *Registry
	enabled  []string
	logger   *slog.Logger

	// SnapshotPath, when set, is written at the end of the run. A failed
	// write fails the whole run.
	SnapshotPath string
}

// NewRunner builds a runner over the registry with the configured
// whitelist. A nil logger uses the slog default.
func NewRunner(registry *Registry, enabled []string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{registry: registry, enabled: enabled, logger: logger}
}

// Run executes a full refresh against net. The context is checked between
// stages: a running plugin is given its ctx but never interrupted
// mid-merge, so cancellation can not leave a half-applied batch.
func (r *Runner) Run(ctx context.Context, net *netmodel.Network) error {
	start := time.Now()

	for _, stage := range StageOrder {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh cancelled before stage %s: %w", stage, err)
		}

		if stage == StageAnnotate {
			// The model is complete once nodes are in; derive the implied
			// links before annotation plugins read them.
			net.DiscoverImpliedLinks()
			net.RefreshLocations()
		}

		r.runStage(ctx, stage, net)

		if stage == StageNodes || stage == StageAnnotate {
			// Annotation plugins may still introduce names, so exclusions
			// and roles are re-applied before the model is written out.
			net.ApplyDomainRoles()
		}
	}

	// The snapshot is the product of the run, not a plugin side effect: a
	// failed write fails the refresh.
	if r.SnapshotPath != "" {
		if err := net.WriteSnapshot(r.SnapshotPath); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		r.logger.Info("snapshot written", "path", r.SnapshotPath)
	}

	r.logger.Info("refresh complete",
		"domains", net.Domains.Len(),
		"ips", net.IPs.Len(),
		"nodes", net.Nodes.Len(),
		"elapsed", time.Since(start),
	)
	return nil
}

// runStage invokes every enabled plugin for the stage. A plugin error or
// panic discards that plugin's batch and the stage moves on.
func (r *Runner) runStage(ctx context.Context, stage Stage, net *netmodel.Network) {
	for _, p := range r.registry.ForStage(stage, r.enabled) {
		log := r.logger.With("plugin", p.Name(), "stage", string(stage))

		batch, err := r.invoke(ctx, p, stage, net, log)
		if err != nil {
			log.Error("plugin failed, batch discarded", "error", err)
			continue
		}

		if applyErr := batch.Apply(net); applyErr != nil {
			// Individual malformed facts, not a plugin failure: the rest
			// of the batch already applied.
			log.Warn("some facts rejected", "error", applyErr)
		}
		log.Debug("batch merged", "facts", batch.Len())
	}
}

// invoke calls the plugin with panic containment. A panicking plugin is
// reported like a failed one.
func (r *Runner) invoke(ctx context.Context, p Plugin, stage Stage, net *netmodel.Network, log *slog.Logger) (batch *Batch, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("plugin panicked", "panic", rec, "stack", string(debug.Stack()))
			batch = nil
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), rec)
		}
	}()
	return p.Run(ctx, stage, net)
}
