package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader reads lines while honoring context cancellation.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads until delim or until ctx is done. A canceled read leaves
// its goroutine blocked until the underlying reader returns.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads a trimmed line. A final line without a newline is returned
// as long as it is not empty.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompter asks for credentials and form values on the terminal.
type Prompter struct {
	reader *NonBlockingReader
	out    io.Writer
	// fd is the terminal descriptor used for hidden input, or -1 when input
	// is not a terminal.
	fd int
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
// Secrets are read without echo only when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if out == nil {
		out = os.Stderr
	}
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{
		reader: NewNonBlockingReader(in),
		out:    out,
		fd:     fd,
	}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.out, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

// AskSecret prints label and reads an answer without echoing it.
func (p *Prompter) AskSecret(ctx context.Context, label string) (string, error) {
	if p.fd < 0 {
		return p.Ask(ctx, label)
	}
	if _, err := fmt.Fprint(p.out, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	type result struct {
		err   error
		value []byte
	}
	resultCh := make(chan result, 1)
	go func() {
		value, err := term.ReadPassword(p.fd)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		fmt.Fprintln(p.out)
		if res.err != nil {
			return "", fmt.Errorf("failed to read secret: %w", res.err)
		}
		return string(res.value), nil
	}
}

// AskDefault is Ask with a fallback used when the answer is blank.
func (p *Prompter) AskDefault(ctx context.Context, label, fallback string) (string, error) {
	if fallback != "" {
		label = fmt.Sprintf("%s [%s]", label, fallback)
	}
	answer, err := p.Ask(ctx, label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}
