// Package workflow implements the client-side state machines that drive the
// multi-step template flows: upload→parse→register and fill→generate→download.
// Each workflow instance owns one in-flight operation at most; transitions
// are explicit methods with guards instead of ad-hoc event handlers.
package workflow

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/azeruya/autoletter/pkg/api"
)

// UploadState enumerates the upload workflow states.
type UploadState string

const (
	UploadStateIdle         UploadState = "idle"
	UploadStateFileSelected UploadState = "file_selected"
	UploadStateUploading    UploadState = "uploading"
	UploadStateSucceeded    UploadState = "upload_succeeded"
	UploadStateFailed       UploadState = "upload_failed"
)

// acceptedExtension gates file selection client-side; rejected files never
// reach the network.
const acceptedExtension = ".docx"

// DefaultNavigationDelay is how long a successful upload lingers before the
// workflow fires its navigation effect toward the new template's detail view.
const DefaultNavigationDelay = 1500 * time.Millisecond

var (
	// ErrUnsupportedFileType rejects selections without the accepted extension.
	ErrUnsupportedFileType = errors.New("workflow: only .docx files are supported")
	// ErrNoFileSelected guards Start before a valid selection exists.
	ErrNoFileSelected = errors.New("workflow: no file selected")
	// ErrUploadInFlight guards against a second upload while one is running.
	ErrUploadInFlight = errors.New("workflow: upload already in progress")
	// ErrWorkflowClosed rejects operations on a torn-down workflow instance.
	ErrWorkflowClosed = errors.New("workflow: closed")
)

// Uploader is the slice of the API client the upload workflow consumes.
type Uploader interface {
	UploadTemplate(ctx context.Context, file io.Reader, filename, name, category string) (*api.UploadResult, error)
}

// UploadOption configures an upload workflow during construction.
type UploadOption func(*UploadWorkflow)

// WithNavigationDelay overrides the post-success navigation delay.
func WithNavigationDelay(d time.Duration) UploadOption {
	return func(w *UploadWorkflow) {
		if d >= 0 {
			w.navDelay = d
		}
	}
}

// WithNavigate installs the navigation effect invoked (once, after the delay)
// with the new template id. Without it, success schedules nothing.
func WithNavigate(fn func(templateID int)) UploadOption {
	return func(w *UploadWorkflow) {
		w.navigate = fn
	}
}

// WithUploadLogger attaches a logger to the workflow.
func WithUploadLogger(logger *zap.Logger) UploadOption {
	return func(w *UploadWorkflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFileOpener overrides how a selected path is opened for reading.
func WithFileOpener(open func(path string) (io.ReadCloser, error)) UploadOption {
	return func(w *UploadWorkflow) {
		if open != nil {
			w.openFile = open
		}
	}
}

// UploadWorkflow orchestrates file selection → upload → result for one view
// instance. At most one upload is in flight; the navigation timer is owned by
// the instance and cancelled on Close so a torn-down view never receives it.
type UploadWorkflow struct {
	uploader Uploader
	logger   *zap.Logger
	openFile func(path string) (io.ReadCloser, error)
	navigate func(templateID int)
	navDelay time.Duration

	mu           sync.Mutex
	state        UploadState
	selectedPath string
	result       *api.UploadResult
	lastErr      error
	navTimer     *time.Timer
	closed       bool
}

// NewUpload constructs an upload workflow in the Idle state.
func NewUpload(uploader Uploader, options ...UploadOption) *UploadWorkflow {
	w := &UploadWorkflow{
		uploader: uploader,
		logger:   zap.NewNop(),
		navDelay: DefaultNavigationDelay,
		openFile: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		state: UploadStateIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// Select records a picked or dropped file. A file without the accepted
// extension is rejected and, crucially, does not clear a previously valid
// selection: the workflow stays in whatever state it was in.
func (w *UploadWorkflow) Select(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkflowClosed
	}
	if w.state == UploadStateUploading {
		return ErrUploadInFlight
	}
	if !strings.EqualFold(filepath.Ext(path), acceptedExtension) {
		w.logger.Warn("rejected file selection", zap.String("path", path))
		return ErrUnsupportedFileType
	}

	// starting over from UploadSucceeded abandons the previous upload's
	// pending navigation
	w.stopTimerLocked()
	w.selectedPath = path
	w.state = UploadStateFileSelected
	w.lastErr = nil
	return nil
}

// Start uploads the current selection. It is an explicit user action and is
// never auto-triggered by Select. While an upload is running every further
// Start is rejected without issuing a network call.
func (w *UploadWorkflow) Start(ctx context.Context, name, category string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state == UploadStateUploading {
		w.mu.Unlock()
		return ErrUploadInFlight
	}
	if w.state != UploadStateFileSelected || w.selectedPath == "" {
		w.mu.Unlock()
		return ErrNoFileSelected
	}
	path := w.selectedPath
	w.state = UploadStateUploading
	w.lastErr = nil
	w.mu.Unlock()

	file, err := w.openFile(path)
	if err != nil {
		w.fail(err)
		return err
	}
	defer file.Close()

	result, err := w.uploader.UploadTemplate(ctx, file, filepath.Base(path), name, category)
	if err != nil {
		w.fail(err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		// the view is gone; a settling call must not mutate its state
		return ErrWorkflowClosed
	}
	w.result = result
	w.state = UploadStateSucceeded
	w.logger.Info("template uploaded",
		zap.Int("template_id", result.TemplateID),
		zap.Int("field_count", result.FieldCount))

	if w.navigate != nil && !w.closed {
		id := result.TemplateID
		w.navTimer = time.AfterFunc(w.navDelay, func() {
			w.mu.Lock()
			closed := w.closed
			w.mu.Unlock()
			if !closed {
				w.navigate(id)
			}
		})
	}
	return nil
}

func (w *UploadWorkflow) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.state = UploadStateFailed
	w.lastErr = err
	w.logger.Warn("upload failed", zap.Error(err))
}

// Reset returns the workflow to Idle after a failure or a completed upload.
// Recovery is always this explicit action; there is no automatic retry.
func (w *UploadWorkflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkflowClosed
	}
	if w.state == UploadStateUploading {
		return ErrUploadInFlight
	}

	w.stopTimerLocked()
	w.state = UploadStateIdle
	w.selectedPath = ""
	w.result = nil
	w.lastErr = nil
	return nil
}

// Close tears the instance down: the pending navigation timer is cancelled so
// it can never fire against a view that no longer exists, and an in-flight
// upload that settles afterwards is discarded for state purposes — the call
// still completes server-side.
func (w *UploadWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.stopTimerLocked()
}

func (w *UploadWorkflow) stopTimerLocked() {
	if w.navTimer != nil {
		w.navTimer.Stop()
		w.navTimer = nil
	}
}

// State reports the current workflow state.
func (w *UploadWorkflow) State() UploadState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SelectedFile reports the currently selected path, if any.
func (w *UploadWorkflow) SelectedFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedPath
}

// Result returns the upload acknowledgment after a success.
func (w *UploadWorkflow) Result() *api.UploadResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Err returns the failure recorded by the last attempt.
func (w *UploadWorkflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
