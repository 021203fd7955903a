package gzip

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

// Source yields the chunks of a streamed body, one per call, then io.EOF.
// It is consumed once and cannot be restarted.
type Source func() ([]byte, error)

type Response struct {
	Header    http.Header
	Source    Source
	Body      []byte
	Status    int
	Streaming bool
}

func NewResponse(status int, header http.Header, body []byte) Response {
	return Response{
		Status: status,
		Header: header,
		Body:   body,
	}
}

func NewStreamingResponse(status int, header http.Header, source Source) Response {
	return Response{
		Status:    status,
		Header:    header,
		Source:    source,
		Streaming: true,
	}
}

// Content returns the whole body, draining the source of a streamed response
func (r Response) Content() ([]byte, error) {
	if !r.Streaming {
		return r.Body, nil
	}

	var buffer bytes.Buffer

	err := r.Source.Each(func(chunk []byte) error {
		_, err := buffer.Write(chunk)
		return err
	})

	return buffer.Bytes(), err
}

func SliceSource(chunks ...[]byte) Source {
	var index int

	return func() ([]byte, error) {
		if index >= len(chunks) {
			return nil, io.EOF
		}

		chunk := chunks[index]
		index++

		return chunk, nil
	}
}

// Each pulls every chunk and hands it to consumer, until exhaustion or the first error
func (s Source) Each(consumer func([]byte) error) error {
	if s == nil {
		return nil
	}

	for {
		chunk, err := s()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if err = consumer(chunk); err != nil {
			return err
		}
	}
}
