// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"bzm-mcp/cli/internal/envelope"
	bzerrors "bzm-mcp/cli/internal/errors"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/httperrors"
	"bzm-mcp/cli/internal/platform"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner animates frames followed by text on a single line of w
// until the returned function is called. Stopping clears the line. Nothing is
// drawn when w is a file that is not a terminal.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// readUser fetches the current user behind a spinner. A transport failure is
// explained on the terminal before it is returned.
func readUser(ctx context.Context, w io.Writer, client *platform.Client, baseURL string) (*format.User, error) {
	stop := startInlineSpinner(w, "Contacting BlazeMeter", spinnerFrames, 120*time.Millisecond)
	res, err := client.User.Read(ctx)
	stop()
	if err != nil {
		if bzerrors.Is(err, bzerrors.TransportFailure) {
			return nil, httperrors.FormatNetworkError(err, "reading the current user", baseURL)
		}
		return nil, err
	}
	return firstUser(res)
}

func firstUser(res *envelope.Result) (*format.User, error) {
	if res.Failed() {
		return nil, errors.New(res.Error)
	}
	u, ok := res.First().(*format.User)
	if !ok {
		return nil, errors.New("BlazeMeter returned no user record")
	}
	return u, nil
}

func printUser(u *format.User) {
	rows := pterm.TableData{{"Field", "Value"}}
	add := func(name string, v *string) {
		if v != nil && *v != "" {
			rows = append(rows, []string{name, *v})
		}
	}
	if u.UserID != nil {
		rows = append(rows, []string{"User ID", fmt.Sprint(*u.UserID)})
	}
	add("Name", u.DisplayName)
	add("Email", u.Email)
	add("Last login", u.Login)
	if u.DefaultProjectID != nil {
		rows = append(rows, []string{"Default project", fmt.Sprint(*u.DefaultProjectID)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
