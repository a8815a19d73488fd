package link

import (
	"context"
	"io"
	"os"

	fx "github.com/robotalks/safety-io/pkg/framework"
)

// readLines reads stream until it fails or ctx is done, calling fn for
// every complete line. A zero-byte read is how a serial port reports a
// read timeout, and is used to check ctx.
func readLines(ctx context.Context, stream io.Reader, parser *Parser, fn func(ParseResult)) error {
	run := func() error {
		buf := make([]byte, MaxLineLen)
		for {
			n, err := stream.Read(buf)
			for _, pr := range parser.ParseBytes(buf[:n]) {
				fn(pr)
			}
			if err != nil {
				return err
			}
			if n == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	if closer, ok := stream.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, run)
	}
	return fx.RunWithContextCancel(ctx, nil, run)
}

type stdio struct{}

// Stdio is a stream on the process stdin and stdout.
func Stdio() io.ReadWriteCloser {
	return stdio{}
}

func (stdio) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdio) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdio) Close() error {
	return os.Stdin.Close()
}
