package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gregLibert/esim-trace/internal/config"
	"github.com/gregLibert/esim-trace/internal/logging"
	"github.com/gregLibert/esim-trace/pkg/capture"
	"github.com/gregLibert/esim-trace/pkg/iso7816"
	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// options are the flags shared by the decoding commands. Empty values keep
// the configuration file setting.
type options struct {
	configPath  string
	format      string
	messageType string
	direction   string
	logLevel    string
}

func (o *options) register(fs *flag.FlagSet, withPayload bool) {
	fs.StringVar(&o.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&o.format, "format", "", "Output format ("+strings.Join(tree.Formats, ", ")+")")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	if withPayload {
		fs.StringVar(&o.messageType, "type", "", "Message type (esim)")
		fs.StringVar(&o.direction, "dir", "", "Direction, e.g. LPA->eUICC or eUICC->LPA")
	}
}

// resolve loads the configuration file and applies the flags on top of it.
func (o *options) resolve() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.format != "" {
		cfg.Format = strings.ToLower(o.format)
	}
	if o.messageType != "" {
		cfg.MessageType = o.messageType
	}
	if o.direction != "" {
		cfg.Direction = o.direction
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func newFlagSet(name, synopsis string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "esimtrace %s\n\nUsage:\n  esimtrace %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags treats -help as a successful run.
func parseFlags(fs *flag.FlagSet, args []string) (bool, error) {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("decode", "decode [flags] <hex|->", stderr)
	var opts options
	opts.register(fs, true)

	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("payload required")
	}

	cfg, err := opts.resolve()
	if err != nil {
		return err
	}

	payload := strings.Join(fs.Args(), "")
	if payload == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		payload = string(data)
	}

	mt, _ := sgp22.ParseMessageType(cfg.MessageType)
	d := sgp22.NewDecoder(logging.NewWithWriter(stderr, cfg.LogLevel))
	return render(stdout, d.Decode(mt, payload, sgp22.ParseDirection(cfg.Direction)), cfg)
}

func runAPDU(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("apdu", "apdu -cmd <hex> [-rsp <hex>]", stderr)
	var opts options
	opts.register(fs, false)
	cmdHex := fs.String("cmd", "", "Command APDU in hex")
	rspHex := fs.String("rsp", "", "Response APDU in hex, status word included")

	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if *cmdHex == "" && fs.NArg() > 0 {
		*cmdHex = fs.Arg(0)
		if *rspHex == "" && fs.NArg() > 1 {
			*rspHex = fs.Arg(1)
		}
	}
	if tlv.Normalize(*cmdHex) == "" {
		fs.Usage()
		return errors.New("command APDU required")
	}

	cfg, err := opts.resolve()
	if err != nil {
		return err
	}

	d := capture.NewDecoder(logging.NewWithWriter(stderr, cfg.LogLevel))
	return render(stdout, d.DecodeExchange(*cmdHex, *rspHex), cfg)
}

func runBatch(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("batch", "batch [flags] <capture file|->", stderr)
	var opts options
	opts.register(fs, true)

	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("capture file required")
	}

	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	logger := logging.NewWithWriter(stderr, cfg.LogLevel)

	path := fs.Arg(0)
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open capture: %w", err)
		}
		defer f.Close()
		r = f
	}

	entries, readErr := capture.ReadEntries(r)
	if readErr != nil && len(entries) == 0 {
		return readErr
	}
	if readErr != nil {
		logger.WithError(readErr).Warn("capture truncated")
	}

	root, err := decodeEntries(entries, cfg, logger)
	if err != nil {
		return err
	}
	root.Value = path
	return render(stdout, root, cfg)
}

// decodeEntries decodes every entry under a "Capture" node, in order, so
// that segmented APDU exchanges are rebuilt. Payloads without a direction
// use the configured one.
func decodeEntries(entries []capture.Entry, cfg config.Config, logger *logrus.Logger) (*tree.Node, error) {
	mt, err := sgp22.ParseMessageType(cfg.MessageType)
	if err != nil {
		return nil, err
	}
	d := capture.NewDecoder(logger)
	d.MessageType = mt
	fallback := sgp22.ParseDirection(cfg.Direction)

	session := d.NewSession()

	root := tree.New("Capture", "")
	for _, e := range entries {
		n := root.Add(fmt.Sprintf("Line %d", e.Line), e.Label)
		if !e.IsAPDU() {
			if e.Direction == sgp22.DirectionUnknown {
				e.Direction = fallback
			}
			n.Hint = e.Direction.String()
		}
		n.Append(session.Entry(e))
	}
	logger.WithField("entries", len(entries)).Debug("capture decoded")
	return root, nil
}

func runTags(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("tags", "tags [-type esim]", stderr)
	messageType := fs.String("type", "esim", "Message type")

	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	mt, err := sgp22.ParseMessageType(*messageType)
	if err != nil {
		return err
	}

	for _, tag := range sgp22.DefaultRegistry().Tags(mt) {
		fmt.Fprintf(stdout, "%-6s %s\n", tag, sgp22.MessageName(tag))
	}
	return nil
}

func render(w io.Writer, n *tree.Node, cfg config.Config) error {
	if cfg.Format == tree.FormatText {
		_, err := fmt.Fprintln(w, n.DescribeIndent(cfg.Indent))
		return err
	}
	data, err := tree.Marshal(n, cfg.Format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// runSegment prints the STORE DATA blocks an LPA sends for an ES10 payload,
// one capture line per block, so that the output can be fed to batch.
func runSegment(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("segment", "segment [-channel 0] [-block 255] <hex|->", stderr)
	channel := fs.Uint("channel", 0, "Logical channel of the ISD-R (0-19)")
	blockSize := fs.Int("block", iso7816.MaxShortLc, "Maximum data bytes per block")

	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("payload required")
	}

	payload := strings.Join(fs.Args(), "")
	if payload == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		payload = string(data)
	}
	data := tlv.ToBytes(payload)
	if len(data) == 0 {
		return errors.New("payload is not hex")
	}

	if *channel > 19 {
		return fmt.Errorf("channel %d out of range (max 19)", *channel)
	}
	cla, err := iso7816.NewGlobalPlatformClass(uint8(*channel), false)
	if err != nil {
		return err
	}
	cmds, err := iso7816.SegmentStoreData(cla, data, *blockSize)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		raw, err := c.Bytes()
		if err != nil {
			return fmt.Errorf("encode block %d: %w", c.P2, err)
		}
		fmt.Fprintf(stdout, "apdu %s\n", tlv.ToHex(raw))
	}
	return nil
}
