package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"hypr-windowlist/internal/ipc"
	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/internal/wm"
	"hypr-windowlist/pkg/config"
	"hypr-windowlist/pkg/logger"
	"hypr-windowlist/pkg/notify"
	"hypr-windowlist/pkg/sound"
)

const eventBuffer = 64

type notifier interface {
	Show(title, message string, nType notify.NotificationType) error
}

type chimer interface {
	PlayAttention() error
}

// Daemon owns the window list. Hyprland events and IPC requests are
// applied on a single loop goroutine.
type Daemon struct {
	config    *config.Config
	log       *logger.Logger
	ctl       wm.Ctl
	eventPath string

	notifier notifier
	chime    chimer

	calls chan func()
}

// NewDaemon checks the session and locates Hyprland.
func NewDaemon(cfg *config.Config, log *logger.Logger) (*Daemon, error) {
	log.Debug("Initializing window list daemon")

	if err := wm.CheckSession(log); err != nil {
		return nil, err
	}

	ctl, err := wm.NewHyprctl(log)
	if err != nil {
		return nil, err
	}

	eventPath, err := wm.EventSocketPath()
	if err != nil {
		log.Error("Failed to locate Hyprland event socket", err)
		return nil, err
	}

	d := newDaemon(cfg, log, ctl, eventPath)
	d.configureAlerts(cfg)
	return d, nil
}

// configureAlerts sets up the attention notification and chime cfg asks for.
func (d *Daemon) configureAlerts(cfg *config.Config) {
	d.notifier = nil
	if cfg.GetUrgencyNotify() {
		d.notifier = notify.NewNotifyService(cfg.GetNotifyCommand(), d.log)
	}

	d.chime = nil
	if cfg.GetUrgencySound() {
		s, err := sound.NewSoundNotifier(cfg.GetUrgencySoundFile())
		if err != nil {
			// The list works without sound.
			d.log.Warn("Urgency sound disabled", "error", err.Error())
		} else {
			d.chime = s
		}
	}
}

// reload re-reads the config file. Alert settings apply at once; the
// rest is read at startup only.
func (d *Daemon) reload() {
	cfg, err := config.Load(d.config.GetPath(), d.log)
	if err != nil {
		d.log.Warn("Keeping current configuration", "path", d.config.GetPath(), "error", err.Error())
		return
	}

	if cfg.WindowListOptions() != d.config.WindowListOptions() ||
		cfg.GetSocketPath() != d.config.GetSocketPath() ||
		cfg.GetMinimizeWorkspace() != d.config.GetMinimizeWorkspace() {
		d.log.Warn("Restart the daemon to apply layout and socket changes")
	}

	d.configureAlerts(cfg)
	d.config = cfg
	d.log.Info("Configuration reloaded",
		"urgency_notify", cfg.GetUrgencyNotify(),
		"urgency_sound", cfg.GetUrgencySound())
}

func newDaemon(cfg *config.Config, log *logger.Logger, ctl wm.Ctl, eventPath string) *Daemon {
	return &Daemon{
		config:    cfg,
		log:       log,
		ctl:       ctl,
		eventPath: eventPath,
		calls:     make(chan func()),
	}
}

// Run syncs with Hyprland and serves until ctx is cancelled or the event
// socket goes away.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info("Starting window list daemon", "socket", d.config.GetSocketPath())

	// Connect before the initial queries so no event falls between them.
	// Events the snapshot already reflects apply as no-ops.
	conn, err := wm.DialEvents(ctx, d.eventPath)
	if err != nil {
		d.log.Error("Failed to connect to Hyprland", err, "path", d.eventPath)
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	socket := d.config.GetSocketPath()
	events := make(chan wm.Event, eventBuffer)
	reloads := make(chan struct{})
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return wm.ReadEvents(gctx, conn, events, d.log)
	})

	h := wm.NewHost(d.ctl, d.log, d.config.GetMinimizeWorkspace())
	if err := h.Sync(ctx); err != nil {
		d.log.Error("Failed to read Hyprland state", err)
		stop()
		g.Wait()
		return err
	}

	list, err := windowlist.New(windowlist.Context{
		Host:    h,
		Logger:  d.log,
		Options: d.config.WindowListOptions(),
	})
	if err != nil {
		stop()
		g.Wait()
		return err
	}
	defer list.Destroy()

	list.Connect(windowlist.AttentionChanged, d.onAttention)

	if path := d.config.GetPath(); path != "" {
		g.Go(func() error {
			if err := watchConfig(gctx, path, reloads, d.log); err != nil && gctx.Err() == nil {
				// Reloading is optional.
				d.log.Warn("Configuration changes need a restart", "error", err.Error())
			}
			return nil
		})
	}

	g.Go(func() error {
		return ipc.NewServer(socket, list, d.execute, d.log).Serve(gctx)
	})
	g.Go(func() error {
		return d.loop(gctx, h, events, reloads)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		d.log.Info("Window list daemon stopped")
		return nil
	}
	return err
}

func (d *Daemon) loop(ctx context.Context, h *wm.Host, events <-chan wm.Event, reloads <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if err := h.Apply(ctx, ev); err != nil {
				d.log.Warn("Event not applied", "event", ev.Name, "error", err.Error())
			}
		case fn := <-d.calls:
			fn()
		case <-reloads:
			d.reload()
		}
	}
}

// execute runs fn on the loop goroutine and waits for it.
func (d *Daemon) execute(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn()
	}

	select {
	case d.calls <- call:
	case <-ctx.Done():
		return fmt.Errorf("daemon busy: %w", ctx.Err())
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("daemon busy: %w", ctx.Err())
	}
}

func (d *Daemon) onAttention(ev windowlist.ManagerEvent) {
	g := ev.Group
	if g == nil || !g.Attention() {
		return
	}

	title := g.App().Name()
	message := g.Label()
	for _, w := range g.Windows() {
		if w.Urgent() || w.DemandsAttention() {
			message = w.Title()
			break
		}
	}
	d.log.Info("Window wants attention", "app", g.App().ID(), "title", message)

	if d.notifier != nil {
		// Notification tools can block; keep them off the loop.
		go func() {
			if err := d.notifier.Show(title, message, notify.Urgent); err != nil {
				d.log.Warn("Attention notification failed", "error", err.Error())
			}
		}()
	}
	if d.chime != nil {
		if err := d.chime.PlayAttention(); err != nil {
			d.log.Warn("Attention sound failed", "error", err.Error())
		}
	}
}
