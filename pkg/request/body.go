package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ReadContent return content of given body
func ReadContent(body io.ReadCloser) (content []byte, err error) {
	if body == nil {
		return
	}

	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("close: %w", closeErr)
			} else {
				err = errors.Join(err, closeErr)
			}
		}
	}()

	content, err = io.ReadAll(body)
	return
}

// ReadBodyRequest return content of a body request (defined as a ReadCloser)
func ReadBodyRequest(r *http.Request) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	return ReadContent(r.Body)
}

// ReadBodyResponse return content of a body response (defined as a ReadCloser)
func ReadBodyResponse(r *http.Response) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	return ReadContent(r.Body)
}

// BoundedBody returns a body that cannot yield more than len(content) bytes
func BoundedBody(content []byte) io.ReadCloser {
	return io.NopCloser(io.LimitReader(bytes.NewReader(content), int64(len(content))))
}
