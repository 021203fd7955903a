package gzip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

func (s *Service) compressSource(source Source) Source {
	var buffer bytes.Buffer
	var done bool

	writer := s.getWriter(&buffer)

	return func() ([]byte, error) {
		if done {
			return nil, io.EOF
		}

		chunk, err := pull(source)
		if errors.Is(err, io.EOF) {
			done = true

			if err = writer.Close(); err != nil {
				return nil, fmt.Errorf("close: %w", err)
			}

			s.putWriter(writer)

			return drain(&buffer), nil
		}

		if err != nil {
			return nil, err
		}

		if _, err = writer.Write(chunk); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}

		if err = writer.Flush(); err != nil {
			return nil, fmt.Errorf("flush: %w", err)
		}

		return drain(&buffer), nil
	}
}

func pull(source Source) ([]byte, error) {
	if source == nil {
		return nil, io.EOF
	}

	return source()
}

func drain(buffer *bytes.Buffer) []byte {
	output := bytes.Clone(buffer.Bytes())
	buffer.Reset()

	return output
}
