package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"graphsync/internal/codec"
	"graphsync/internal/config"
	"graphsync/internal/domain"
	"graphsync/internal/pipe"
	"graphsync/internal/stream"
	"graphsync/internal/watcher"
)

type mirrorFlags struct {
	nodes       int
	extraEdges  int
	rounds      int
	seed        uint64
	cadence     string
	format      string
	trace       bool
	watch       bool
	metricsAddr string
}

func newMirrorCmd(opts *options) *cobra.Command {
	flags := &mirrorFlags{}

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Grow a graph and mirror it onto a replica on another goroutine",
		Long: "Mirror builds a random source graph on the main goroutine and a replica on a\n" +
			"consumer goroutine, connected by two synchronised pipes. The replica marks\n" +
			"every node it receives with ui.* attributes that flow back to the source.\n" +
			"Both graphs are printed once every round has been mirrored.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := opts.load()
			if err != nil {
				return err
			}
			if opts.verbose == 0 {
				setVerbosity(cfg.Logging.Verbosity)
			}
			if path != "" {
				glog.Infof("Loaded config from %s", path)
			}
			flags.apply(cfg)
			if !flags.watch {
				path = ""
			}
			return runMirror(cmd.Context(), cmd.OutOrStdout(), cfg, path, flags)
		},
	}

	cmd.Flags().IntVar(&flags.nodes, "nodes", 20, "Number of nodes to generate")
	cmd.Flags().IntVar(&flags.extraEdges, "extra-edges", 10, "Random edges added on top of the spanning tree")
	cmd.Flags().IntVar(&flags.rounds, "rounds", 5, "Mutation rounds after the initial graph")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&flags.cadence, "cadence", "", "Override the config cadence: realtime, interactive or batch")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Snapshot format: yaml or json")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "Write every replica event to stderr as JSON lines")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "Reload pipe filters when the config file changes")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

// apply overrides config settings that have a flag
func (f *mirrorFlags) apply(cfg *config.Config) {
	if f.cadence != "" {
		cfg.Cadence = config.ParseCadence(f.cadence)
	}
}

// session holds both sides of a mirror. The source and its inbound pipe
// belong to the goroutine running the session; the replica belongs to the
// consumer goroutine once started.
type session struct {
	source    *domain.Graph
	replica   *domain.Graph
	toReplica *pipe.Pipe
	toSource  *pipe.Pipe
}

func pipeOptions(pc config.PipeConfig) []pipe.Option {
	opts := []pipe.Option{
		pipe.WithName(pc.Name),
		pipe.WithAttributeFilter(pc.Filter()),
		pipe.WithSuppression(pipe.ParseScope(pc.Suppression)),
	}
	if pc.AttributeOnly {
		opts = append(opts, pipe.AttributeOnly())
	}
	return opts
}

func newSession(cfg *config.Config) *session {
	s := &session{
		source:  domain.New(cfg.Graph.ID, domain.WithStrict(cfg.GraphStrict())),
		replica: domain.New(cfg.Mirror.ID, domain.WithStrict(cfg.MirrorStrict())),
	}
	s.toReplica = pipe.New(s.source, pipeOptions(cfg.Pipes.ToReplica)...)
	s.toReplica.AddSink(s.replica)
	s.toSource = pipe.New(s.replica, pipeOptions(cfg.Pipes.ToSource)...)
	s.toSource.AddSink(s.source)
	s.toReplica.SynchronizeWith(s.toSource)

	s.replica.AddElementSink(newMarker(s.replica))
	return s
}

// reload swaps the pipe filters. Safe while both sides are running.
func (s *session) reload(cfg *config.Config) {
	s.toReplica.SetAttributeFilter(cfg.Pipes.ToReplica.Filter())
	s.toSource.SetAttributeFilter(cfg.Pipes.ToSource.Filter())
	glog.Infof("Reloaded pipe filters: to_replica=%v to_source=%v",
		cfg.Pipes.ToReplica.AttributePrefixes, cfg.Pipes.ToSource.AttributePrefixes)
}

// marker annotates the replica: every node arriving through a pipe gets
// ui.mirrored and its arrival rank.
type marker struct {
	stream.Collector
	replica *domain.Graph
	seen    int
}

func newMarker(replica *domain.Graph) *marker {
	m := &marker{replica: replica}
	m.Collector = func(ev stream.Event) {
		if ev.Type != stream.EventNodeAdded || !ev.Origin.Replayed() {
			return
		}
		n := m.replica.Node(ev.ID)
		if n == nil {
			return
		}
		m.seen++
		n.AddAttribute("ui.mirrored")
		n.SetAttribute("ui.rank", m.seen)
	}
	return m
}

func runMirror(ctx context.Context, out io.Writer, cfg *config.Config, watchPath string, flags *mirrorFlags) error {
	if flags.format != "yaml" && flags.format != "json" {
		return errors.Errorf("unknown format %q", flags.format)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := newSession(cfg)
	if flags.trace {
		s.replica.AddSink(codec.NewEventLog(os.Stderr))
	}
	cadence := cfg.EffectiveCadence()

	if flags.metricsAddr != "" {
		server := &http.Server{Addr: flags.metricsAddr, Handler: promhttp.Handler()}
		go func() {
			glog.Infof("Metrics listening on %s", flags.metricsAddr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				glog.Errorf("Metrics server error: %v", err)
			}
		}()
		defer server.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stopRun := context.WithCancel(gctx)
	defer stopRun()

	if watchPath != "" {
		g.Go(func() error {
			w := watcher.New(watchPath, func() {
				next, _, err := config.LoadFromPath(watchPath)
				if err != nil {
					glog.Warningf("Ignoring config change: %v", err)
					return
				}
				s.reload(next)
			})
			if err := w.Watch(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				glog.Warningf("Config watcher stopped: %v", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		err := s.toReplica.Run(runCtx, cadence.PumpInterval)
		s.toReplica.Pump()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	produceErr := produce(gctx, s, flags, cadence.RoundDelay)
	stopRun()
	if err := g.Wait(); err != nil {
		return err
	}
	if produceErr != nil {
		return produceErr
	}

	// The consumer is done: write-backs queued on its side can be pumped
	// and the replica read from here.
	s.toSource.Pump()
	glog.Infof("Mirrored %d nodes and %d edges (source rejected %d, replica rejected %d)",
		s.replica.NodeCount(), s.replica.EdgeCount(), s.source.Rejected(), s.replica.Rejected())

	return printSnapshots(out, flags.format, s.source, s.replica)
}

// produce grows the source graph, then mutates it for a number of rounds,
// pumping the replica's write-backs between rounds.
func produce(ctx context.Context, s *session, flags *mirrorFlags, delay time.Duration) error {
	rng := rand.New(rand.NewPCG(flags.seed, flags.seed^0x9e3779b97f4a7c15))
	src := s.source

	if err := generate(src, rng, flags.nodes, flags.extraEdges); err != nil {
		return err
	}

	for round := 1; round <= flags.rounds; round++ {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		s.toSource.Pump()
		if err := src.BeginStep(float64(round)); err != nil {
			return err
		}
		mutate(src, rng)
	}
	return nil
}

func nodeID(i int) string {
	return fmt.Sprintf("n%03d", i)
}

func generate(g *domain.Graph, rng *rand.Rand, nodes, extraEdges int) error {
	for i := range nodes {
		n, err := g.AddNode(nodeID(i))
		if err != nil {
			return err
		}
		n.SetAttribute("label", fmt.Sprintf("node %d", i))
		n.SetAttribute("weight", rng.Float64())
		n.SetAttribute("xy", []float64{rng.Float64() * 100, rng.Float64() * 100})
		if i == 0 {
			continue
		}
		if _, err := g.AddEdge(fmt.Sprintf("t%03d", i), nodeID(rng.IntN(i)), n.ID(), false); err != nil {
			return err
		}
	}
	if nodes < 2 {
		return nil
	}
	for i := range extraEdges {
		from, to := rng.IntN(nodes), rng.IntN(nodes)
		if _, err := g.AddEdge(fmt.Sprintf("x%03d", i), nodeID(from), nodeID(to), rng.IntN(2) == 0); err != nil {
			return err
		}
	}
	return nil
}

// mutate changes a few weights and drops a random edge
func mutate(g *domain.Graph, rng *rand.Rand) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}
	for range 3 {
		n := nodes[rng.IntN(len(nodes))]
		n.ChangeAttribute("weight", rng.Float64())
	}
	if edges := g.Edges(); len(edges) > 0 {
		e := edges[rng.IntN(len(edges))]
		if err := g.RemoveEdge(e.ID()); err != nil {
			glog.Warningf("remove edge %s: %v", e.ID(), err)
		}
	}
}

func printSnapshots(out io.Writer, format string, graphs ...*domain.Graph) error {
	var exp codec.Exporter = codec.NewYAMLCodec()
	if format == "json" {
		exp = codec.NewJSONCodec()
	}
	for _, g := range graphs {
		if format == "yaml" {
			fmt.Fprintln(out, "---")
		}
		if err := exp.Export(codec.Capture(g), out); err != nil {
			return err
		}
	}
	return nil
}
