package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/ir"
	"github.com/roach88/uncurl/internal/store"
	"github.com/roach88/uncurl/internal/view"
)

// LookupOptions holds flags for the lookup command.
type LookupOptions struct {
	*RootOptions
	curveFlags

	At      []string // "x,y" grid cells
	Screen  []string // "x,y" window positions
	WindowW int
	WindowH int
	Pan     string // "dx,dy"
	Zoom    float64
	ZoomAt  string // "x,y", default window centre

	Write []string // click action targets, "-" for stdout
	DB    string

	// IDs allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// Lookup statuses.
const (
	StatusHit     = "hit"
	StatusUnset   = "unset"
	StatusOutside = "outside"
)

// LookupEntry is one resolved query.
type LookupEntry struct {
	Screen   []float64 `json:"screen,omitempty"`
	Point    *ir.Point `json:"point,omitempty"`
	Position *int      `json:"position,omitempty"`
	Status   string    `json:"status"`
}

// LookupResult holds every resolved query in order.
type LookupResult struct {
	Curve     string          `json:"curve"`
	Width     int             `json:"width"`
	Transform *view.Transform `json:"transform,omitempty"`
	Lookups   []LookupEntry   `json:"lookups"`
}

// Text renders one line per query.
func (r LookupResult) Text() string {
	var b strings.Builder
	for _, e := range r.Lookups {
		if e.Screen != nil {
			fmt.Fprintf(&b, "screen (%g,%g) ", e.Screen[0], e.Screen[1])
		}
		switch e.Status {
		case StatusHit:
			fmt.Fprintf(&b, "%s -> %d\n", e.Point, *e.Position)
		case StatusUnset:
			fmt.Fprintf(&b, "%s -> unset\n", e.Point)
		default:
			b.WriteString("-> outside grid\n")
		}
	}
	return b.String()
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return newLookupCommand(&LookupOptions{RootOptions: rootOpts})
}

func newLookupCommand(opts *LookupOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <input>",
		Short: "Resolve grid cells back to sequence positions",
		Long: `Scatter an input along the selected curve, then resolve grid cells to
the sequence position stored there.

Cells are given directly with --at, or as window positions with --screen.
Window positions go through a view transform: the grid is centred in a
window of --window-width x --window-height, moved by --pan and scaled by
1.017^--zoom around --zoom-at (default: the window centre).

Every resolved position is written to each --write target (a file, or "-"
for stdout) and, with --db, appended to the lookup log.

Examples:
  uncurl lookup image.rgb --at 3,5 --at 0,0
  uncurl lookup image.rgb --screen 400,300 --zoom 40 --write -
  uncurl lookup data.bin --elem-size 1 --at 1,1 --db uncurl.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, args[0], cmd)
		},
	}

	opts.curveFlags.register(cmd, true)
	cmd.Flags().StringArrayVar(&opts.At, "at", nil, "grid cell \"x,y\" (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Screen, "screen", nil, "window position \"x,y\" (repeatable)")
	cmd.Flags().IntVar(&opts.WindowW, "window-width", 800, "window width for --screen")
	cmd.Flags().IntVar(&opts.WindowH, "window-height", 600, "window height for --screen")
	cmd.Flags().StringVar(&opts.Pan, "pan", "0,0", "view pan \"dx,dy\" in window pixels")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", 0, "view zoom in wheel steps")
	cmd.Flags().StringVar(&opts.ZoomAt, "zoom-at", "", "zoom centre \"x,y\" (default: window centre)")
	cmd.Flags().StringArrayVar(&opts.Write, "write", nil, "write each resolved position to PATH, \"-\" for stdout (repeatable)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "append lookups to this SQLite lookup log")

	return cmd
}

func runLookup(opts *LookupOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s := settings{cmd: cmd, cfg: opts.config()}
	log := opts.logger()

	if len(opts.At) == 0 && len(opts.Screen) == 0 {
		return NewExitError(ExitCommandError, "nothing to look up: give --at or --screen")
	}

	cells, err := parseCells(opts.At)
	if err != nil {
		return err
	}
	screens, err := parsePairs("--screen", opts.Screen)
	if err != nil {
		return err
	}

	l, err := opts.loadMapping(cmd, f, opts.curveFlags, input)
	if err != nil {
		return err
	}
	dims := l.Mapping.Dimensions()

	result := LookupResult{
		Curve:   string(l.Layout.Info.Name),
		Width:   dims.Width,
		Lookups: []LookupEntry{},
	}

	for _, p := range cells {
		result.Lookups = append(result.Lookups, resolve(l, p))
	}

	if len(screens) > 0 {
		t, err := opts.transform(s)
		if err != nil {
			return err
		}
		result.Transform = &t
		for _, sc := range screens {
			p, ok := t.Pick(sc[0], sc[1], dims)
			entry := LookupEntry{Screen: []float64{sc[0], sc[1]}, Status: StatusOutside}
			if ok {
				entry = resolve(l, p)
				entry.Screen = []float64{sc[0], sc[1]}
			}
			log.Debug("pick", "screen_x", sc[0], "screen_y", sc[1], "status", entry.Status)
			result.Lookups = append(result.Lookups, entry)
		}
	}

	sessionID, err := opts.record(cmd.Context(), s, l, result.Lookups)
	if err != nil {
		return err
	}

	for _, target := range s.write(opts.Write) {
		if err := writePositions(cmd, target, result.Lookups); err != nil {
			return err
		}
	}

	return f.SuccessWithSession(result, sessionID)
}

func resolve(l *loaded, p ir.Point) LookupEntry {
	pt := p
	if !l.Mapping.Dimensions().Contains(p) {
		return LookupEntry{Point: &pt, Status: StatusOutside}
	}
	i, ok := l.Mapping.Lookup(p)
	if !ok {
		return LookupEntry{Point: &pt, Status: StatusUnset}
	}
	return LookupEntry{Point: &pt, Position: &i, Status: StatusHit}
}

func (o *LookupOptions) transform(s settings) (view.Transform, error) {
	w, h := s.window(o.WindowW, o.WindowH)
	if w <= 0 || h <= 0 {
		return view.Transform{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid window size %dx%d", w, h))
	}
	t := view.New(w, h)

	pan, err := parsePairs("--pan", []string{o.Pan})
	if err != nil {
		return view.Transform{}, err
	}
	t = t.Pan(pan[0][0], pan[0][1])

	if o.Zoom != 0 {
		mx, my := float64(w)*0.5, float64(h)*0.5
		if o.ZoomAt != "" {
			at, err := parsePairs("--zoom-at", []string{o.ZoomAt})
			if err != nil {
				return view.Transform{}, err
			}
			mx, my = at[0][0], at[0][1]
		}
		t = t.Zoom(mx, my, o.Zoom)
	}
	return t, nil
}

// record appends every on-grid lookup to the lookup log. Returns the
// session id, or "" when no log is configured.
func (o *LookupOptions) record(ctx context.Context, s settings, l *loaded, entries []LookupEntry) (string, error) {
	dbPath := s.db(o.DB)
	if dbPath == "" {
		return "", nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			o.logger().Error("error closing database", "error", closeErr)
		}
	}()

	ids := o.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	rec, err := store.NewRecorder(ctx, st, store.Session{
		ID:            ids.Generate(),
		Curve:         l.Layout.Info.Name,
		Grammar:       l.Layout.Grammar(),
		Source:        l.Source,
		Length:        l.Layout.Length,
		WidthLog2:     l.Layout.Dims.WidthLog2,
		Depth:         l.Layout.Depth,
		ElemSize:      l.ElemSize,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	})
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to start session", err)
	}

	for _, e := range entries {
		if e.Status == StatusOutside {
			continue
		}
		if _, err := rec.Record(ctx, *e.Point, e.Position); err != nil {
			return "", WrapExitError(ExitCommandError, "failed to record lookup", err)
		}
	}
	o.logger().Info("lookups recorded", "db", dbPath, "session", rec.SessionID())
	return rec.SessionID(), nil
}

// writePositions performs the write click action for every hit. A file
// target is rewritten per hit and so ends up holding the last position.
func writePositions(cmd *cobra.Command, target string, entries []LookupEntry) error {
	for _, e := range entries {
		if e.Status != StatusHit {
			continue
		}
		line := strconv.Itoa(*e.Position) + "\n"
		if target == "-" {
			fmt.Fprint(cmd.OutOrStdout(), line)
			continue
		}
		if err := os.WriteFile(target, []byte(line), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write position", err)
		}
	}
	return nil
}

func parseCells(values []string) ([]ir.Point, error) {
	var out []ir.Point
	for _, v := range values {
		x, y, ok := strings.Cut(v, ",")
		ix, errX := strconv.Atoi(strings.TrimSpace(x))
		iy, errY := strconv.Atoi(strings.TrimSpace(y))
		if !ok || errX != nil || errY != nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --at %q: want x,y", v))
		}
		out = append(out, ir.Point{X: ix, Y: iy})
	}
	return out, nil
}

func parsePairs(flag string, values []string) ([][2]float64, error) {
	var out [][2]float64
	for _, v := range values {
		x, y, ok := strings.Cut(v, ",")
		fx, errX := strconv.ParseFloat(strings.TrimSpace(x), 64)
		fy, errY := strconv.ParseFloat(strings.TrimSpace(y), 64)
		if !ok || errX != nil || errY != nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q: want x,y", flag, v))
		}
		out = append(out, [2]float64{fx, fy})
	}
	return out, nil
}
