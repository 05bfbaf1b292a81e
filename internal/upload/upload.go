// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package upload sends test assets (scripts, data files, archives) to a
// BlazeMeter test.
//
// A batch goes through VALIDATING, UPLOADING, an optional CONFIGURING step and
// DONE. Local files are checked before any network call; valid files are
// uploaded concurrently with a bounded width and every upload settles before
// the batch returns, so one failing file never cancels its siblings. When a
// main script is named and valid, the test is re-pointed at it afterwards.
package upload

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/logging"
	"bzm-mcp/cli/internal/metrics"
)

// Defaults for Options.
const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Minute
)

// NoValidFilesMessage is reported when validation leaves nothing to upload.
const NoValidFilesMessage = "No valid files found to upload"

// Doer performs one platform call.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, format gateway.Formatter) (*envelope.Result, error)
}

// Options configures an Uploader.
type Options struct {
	// Concurrency bounds in-flight uploads.
	Concurrency int
	// Timeout is the overall budget for one batch, uploads and config update included.
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Uploader runs upload batches. It holds no per-batch state.
type Uploader struct {
	gw      Doer
	width   int
	timeout time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// FileResult is a file the platform accepted.
type FileResult struct {
	File   string           `json:"file"`
	Result *envelope.Result `json:"result"`
}

// FileError is a file whose upload failed.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Outcome aggregates one batch.
type Outcome struct {
	TestID            int64            `json:"test_id"`
	SuccessfulUploads []FileResult     `json:"successful_uploads"`
	FailedUploads     []FileError      `json:"failed_uploads"`
	InvalidFiles      []string         `json:"invalid_files"`
	ConfigUpdate      *envelope.Result `json:"config_update"`
	Error             string           `json:"error,omitempty"`
}

// New creates an Uploader.
func New(gw Doer, opts Options) *Uploader {
	u := &Uploader{
		gw:      gw,
		width:   opts.Concurrency,
		timeout: opts.Timeout,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if u.width <= 0 {
		u.width = DefaultConcurrency
	}
	if u.timeout <= 0 {
		u.timeout = DefaultTimeout
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	return u
}

type slot struct {
	res *envelope.Result
	err error
}

// Run uploads paths to the test. Per-file failures are itemized in the
// Outcome. The returned error is non-nil only when the dependent configuration
// update could not be performed; the Outcome is still returned in that case.
func (u *Uploader) Run(ctx context.Context, testID int64, paths []string, mainScript string) (*Outcome, error) {
	valid, invalid := Validate(paths)
	u.metrics.UploadFiles(metrics.UploadInvalid, len(invalid))
	u.log.Debug("validated upload batch",
		zap.Int64("test_id", testID),
		zap.Strings("valid", valid),
		zap.Strings("invalid", invalid))

	out := &Outcome{
		TestID:            testID,
		SuccessfulUploads: []FileResult{},
		FailedUploads:     []FileError{},
		InvalidFiles:      invalid,
	}
	if len(valid) == 0 {
		u.log.Error(NoValidFilesMessage, zap.Int64("test_id", testID))
		out.Error = NoValidFilesMessage
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	// Every goroutine returns nil; failures are kept per slot.
	slots := make([]slot, len(valid))
	var g errgroup.Group
	g.SetLimit(u.width)
	for i, p := range valid {
		i, p := i, p
		g.Go(func() error {
			slots[i] = u.uploadOne(ctx, testID, p)
			return nil
		})
	}
	_ = g.Wait()

	for i, s := range slots {
		if s.err != nil {
			u.log.Error("upload failed", zap.String("file", valid[i]), zap.String("error", logging.Mask(s.err.Error())))
			out.FailedUploads = append(out.FailedUploads, FileError{File: valid[i], Error: logging.Mask(s.err.Error())})
			continue
		}
		out.SuccessfulUploads = append(out.SuccessfulUploads, FileResult{File: valid[i], Result: s.res})
	}
	u.metrics.UploadFiles(metrics.UploadSucceeded, len(out.SuccessfulUploads))
	u.metrics.UploadFiles(metrics.UploadFailed, len(out.FailedUploads))

	if mainScript == "" || !slices.Contains(valid, mainScript) {
		return out, nil
	}
	res, err := u.configure(ctx, testID, mainScript)
	if err != nil {
		u.log.Error("test configuration update failed after uploads",
			zap.Int64("test_id", testID),
			zap.Int("successful_uploads", len(out.SuccessfulUploads)),
			zap.Int("failed_uploads", len(out.FailedUploads)),
			zap.String("error", logging.Mask(err.Error())))
		return out, err
	}
	out.ConfigUpdate = res
	return out, nil
}

// Validate splits paths into existing regular files and everything else,
// preserving input order. It performs no network calls.
func Validate(paths []string) (valid, invalid []string) {
	valid, invalid = []string{}, []string{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			valid = append(valid, p)
			continue
		}
		invalid = append(invalid, p)
	}
	return valid, invalid
}

func (u *Uploader) uploadOne(ctx context.Context, testID int64, p string) slot {
	f, err := os.Open(p)
	if err != nil {
		return slot{err: fmt.Errorf("failed to upload %s: %w", p, err)}
	}
	defer f.Close()

	res, err := u.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/tests/%d/files", testID),
		File: &gateway.File{
			FieldName:   "file",
			FileName:    filepath.Base(p),
			ContentType: MIMEType(p),
			Content:     f,
		},
	}, nil)
	if err != nil {
		return slot{err: fmt.Errorf("failed to upload %s: %w", p, err)}
	}
	if res.Failed() {
		return slot{err: fmt.Errorf("failed to upload %s: %s", p, res.Error)}
	}
	u.log.Debug("uploaded file", zap.String("file", p), zap.Int64("test_id", testID))
	return slot{res: res}
}

func (u *Uploader) configure(ctx context.Context, testID int64, mainScript string) (*envelope.Result, error) {
	name := filepath.Base(mainScript)
	res, err := u.gw.Do(ctx, gateway.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/tests/%d", testID),
		Body: map[string]any{
			"configuration": map[string]any{
				"filename":   name,
				"scriptType": ScriptType(name),
			},
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update test configuration: %w", err)
	}
	return res, nil
}

var mimeTypes = map[string]string{
	".jmx":        "application/xml",
	".xml":        "application/xml",
	".yaml":       "text/yaml",
	".yml":        "text/yaml",
	".csv":        "text/csv",
	".zip":        "application/zip",
	".jar":        "application/java-archive",
	".properties": "text/plain",
}

var scriptTypes = map[string]string{
	".jmx":  "jmeter",
	".yaml": "taurus",
	".yml":  "taurus",
	".py":   "python",
	".js":   "javascript",
}

// MIMEType maps a file extension to the content type sent with the upload.
func MIMEType(p string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(p))]; ok {
		return t
	}
	return "application/octet-stream"
}

// ScriptType maps a main script extension to the platform script type.
func ScriptType(name string) string {
	if t, ok := scriptTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "unknown"
}
