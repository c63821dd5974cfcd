package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/skysync/internal/observability"
	"github.com/danmuck/skysync/internal/protocol"
	"github.com/danmuck/skysync/internal/protocol/coder"
	"github.com/danmuck/skysync/internal/protocol/frame"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: skyframe [-config path] <command> [args]

commands:
  decode [file]        decode a frame stream from file or stdin
  greet                write a greeting frame built from the config
  ping [-timeout n]    write a ping frame
`

func main() {
	observability.InitLogger("skyframe")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("skyframe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "skyframe: %v\n", err)
		return 1
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	c, err := coder.New(cfg.Backend,
		coder.WithMaxSize(cfg.Limits.MaxBodyBytes),
		coder.WithMaxSignatureSize(cfg.Limits.MaxSignatureBytes),
		coder.WithMetrics(cfg.Metrics),
	)
	if err != nil {
		fmt.Fprintf(stderr, "skyframe: %v\n", err)
		return 1
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "decode":
		err = runDecode(c, cfg, rest, stdin, stdout)
	case "greet":
		err = writeMessage(c, stdout, protocol.Greeting{
			Software: cfg.Software,
			Protocol: cfg.Protocol,
			Features: cfg.Features,
		})
	case "ping":
		err = runPing(c, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "skyframe: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "skyframe: %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func runDecode(c *coder.Coder, cfg appConfig, args []string, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	r := frame.NewReader(in, cfg.Limits)
	for n := 0; ; n++ {
		f, err := r.ReadFrame()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		msg, err := c.Decode(f.Payload, f.Body, f.Signature)
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		fmt.Fprintf(stdout, "%s %+v\n", msg.Type(), msg)
		if f.Payload {
			// The payload block has its own framing, so the next frame
			// boundary is unknown from here.
			log.Warn().Int("frame", n).Msg("payload block follows; stopping")
			return nil
		}
	}
}

func runPing(c *coder.Coder, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeout := fs.Int64("timeout", 60, "ping timeout in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return writeMessage(c, stdout, protocol.Ping{Timeout: *timeout})
}

func writeMessage(c *coder.Coder, w io.Writer, msg protocol.Message) error {
	out, err := c.Encode(msg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
