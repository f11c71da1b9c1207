package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"sync"

	"pdfmcq/internal/domain"
	"pdfmcq/internal/session"
)

var (
	errNetwork = errors.New("Network error during upload (check API base and backend).")
	errAborted = errors.New("Upload aborted.")
	errTimeout = errors.New("Upload timed out.")
)

// Upload streams the document as a multipart POST and reports progress
// on the returned event channel. Percentages are non-decreasing; the
// event channel is closed before the single result is delivered.
// Failed uploads are not retried here.
func (c *Client) Upload(ctx context.Context, doc session.Document, numQuestions int) (<-chan session.ProgressEvent, <-chan session.UploadResult) {
	emitter := newProgressEmitter()
	result := make(chan session.UploadResult, 1)

	go func() {
		defer close(result)
		resp, err := c.doUpload(ctx, doc, numQuestions, emitter)
		emitter.closeChannel()
		result <- session.UploadResult{Resp: resp, Err: err}
	}()

	return emitter.ch, result
}

func (c *Client) doUpload(ctx context.Context, doc session.Document, numQuestions int, emitter *progressEmitter) (domain.UploadResponse, error) {
	if numQuestions < 1 {
		numQuestions = 1
	}

	emitter.emit(10, "Starting upload…")

	body, contentType := multipartBody(doc, numQuestions, emitter)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload-pdf", body)
	if err != nil {
		return domain.UploadResponse{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.uploadHTTP.Do(req)
	if err != nil {
		return domain.UploadResponse{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	// Bytes are fully received; the server is generating questions now.
	emitter.emit(85, "Generating questions…")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.UploadResponse{}, serviceError(resp, "Upload failed.")
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var parsed struct {
		QuizID       any `json:"quiz_id"`
		NumQuestions int `json:"num_questions"`
	}
	if err := dec.Decode(&parsed); err != nil {
		return domain.UploadResponse{}, ErrInvalidServerResponse
	}
	quizID, ok := quizIDString(parsed.QuizID)
	if !ok {
		return domain.UploadResponse{}, ErrInvalidServerResponse
	}
	return domain.UploadResponse{QuizID: quizID, NumQuestions: parsed.NumQuestions}, nil
}

// multipartBody streams the document through a pipe so progress can be
// measured per chunk instead of after the fact.
func multipartBody(doc session.Document, numQuestions int, emitter *progressEmitter) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", doc.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		counted := &progressReader{r: doc.Content, total: doc.Size, emitter: emitter}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("num_questions", strconv.Itoa(numQuestions)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}

// progressReader emits an upload percentage per read: 10-80 scaled by
// bytes sent when the total is known, a flat 40 otherwise.
type progressReader struct {
	r       io.Reader
	sent    int64
	total   int64
	last    int
	emitter *progressEmitter
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		pct := 40
		if p.total > 0 {
			pct = 10 + int(float64(p.sent)/float64(p.total)*70)
			if pct > 80 {
				pct = 80
			}
		}
		if pct > p.last {
			p.last = pct
			p.emitter.emit(pct, "Uploading PDF…")
		}
	}
	return n, err
}

// progressEmitter serializes event delivery and survives emits that
// race the terminal close (the body pipe goroutine can outlive a
// transport failure).
type progressEmitter struct {
	mu     sync.Mutex
	closed bool
	ch     chan session.ProgressEvent
}

func newProgressEmitter() *progressEmitter {
	return &progressEmitter{ch: make(chan session.ProgressEvent, 8)}
}

// emit never blocks a slow consumer: when the buffer is full the oldest
// pending event is dropped, which preserves monotonicity.
func (e *progressEmitter) emit(percent int, label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	ev := session.ProgressEvent{Percent: percent, Label: label}
	select {
	case e.ch <- ev:
	default:
		select {
		case <-e.ch:
		default:
		}
		e.ch <- ev
	}
}

func (e *progressEmitter) closeChannel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}

// classifyTransportError maps low-level failures onto the messages the
// user sees: abort, timeout, or a generic network error.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return errAborted
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errTimeout
	}
	return errNetwork
}
