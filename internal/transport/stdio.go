package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// StdioServer frames JSON-RPC messages as newline-delimited JSON over a
// reader/writer pair, normally stdin/stdout. Logs never touch the writer.
type StdioServer struct {
	dispatcher *Dispatcher
	in         io.Reader
	out        io.Writer
	log        *zap.Logger
}

func NewStdioServer(dispatcher *Dispatcher, in io.Reader, out io.Writer, log *zap.Logger) *StdioServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &StdioServer{
		dispatcher: dispatcher,
		in:         in,
		out:        out,
		log:        log,
	}
}

// Run serves requests until the input stream ends or the context is
// cancelled. Malformed lines produce a parse-error response and the loop
// continues.
func (s *StdioServer) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if writeErr := s.serveLine(ctx, line); writeErr != nil {
				return writeErr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (s *StdioServer) serveLine(ctx context.Context, line []byte) error {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn("unparseable request line", zap.Error(err))
		return s.write(parseErrorResponse(nil))
	}
	resp := s.dispatcher.Handle(ctx, &req)
	if resp == nil {
		return nil
	}
	return s.write(resp)
}

func (s *StdioServer) write(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s\n", data)
	return err
}
