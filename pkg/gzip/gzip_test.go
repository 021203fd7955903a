package gzip

import (
	"bytes"
	"flag"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ViBiOh/httpgzip/pkg/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
)

var (
	compressible   = []byte(strings.Repeat("Hello World! ", 50))
	incompressible = randomBytes(512)
)

func randomBytes(size int) []byte {
	output := make([]byte, size)
	rand.New(rand.NewSource(42)).Read(output)

	return output
}

func newTestService(t *testing.T, recorder Recorder) *Service {
	t.Helper()

	minSize := DefaultMinSize
	level := gzip.DefaultCompression
	legacyAgent := DefaultLegacyAgent

	service, err := New(Config{minSize: &minSize, level: &level, legacyAgent: &legacyAgent}, recorder)
	if err != nil {
		t.Fatalf("new service: %s", err)
	}

	return service
}

func newRequest(headers ...string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	return req
}

func gunzip(t *testing.T, content []byte) []byte {
	t.Helper()

	reader, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("gzip reader: %s", err)
	}

	output, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("gunzip: %s", err)
	}

	return output
}

func TestFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("TestFlags", flag.ContinueOnError)
	config := Flags(fs, "")

	assert.NoError(t, fs.Parse([]string{"-minSize", "1024", "-level", "9", "-legacyAgent", "MSIE"}))
	assert.Equal(t, 1024, *config.minSize)
	assert.Equal(t, 9, *config.level)

	service, err := New(config, nil)
	assert.NoError(t, err)
	assert.Equal(t, "msie", service.legacyAgent)
}

func TestNew(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		level   int
		wantErr bool
	}{
		"default": {
			gzip.DefaultCompression,
			false,
		},
		"huffman": {
			gzip.HuffmanOnly,
			false,
		},
		"too high": {
			12,
			true,
		},
		"too low": {
			-5,
			true,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			minSize := DefaultMinSize
			legacyAgent := DefaultLegacyAgent

			_, err := New(Config{minSize: &minSize, level: &testCase.level, legacyAgent: &legacyAgent}, nil)

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompress(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		request     *http.Request
		header      http.Header
		body        []byte
		wantEncoded bool
		wantVary    string
	}{
		"short body": {
			newRequest("Accept-Encoding", "gzip"),
			http.Header{},
			[]byte("short"),
			false,
			"Accept-Encoding",
		},
		"already encoded": {
			newRequest("Accept-Encoding", "gzip"),
			http.Header{"Content-Encoding": []string{"br"}},
			compressible,
			false,
			"Accept-Encoding",
		},
		"legacy client with json": {
			newRequest("Accept-Encoding", "gzip", "User-Agent", "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.1)"),
			http.Header{"Content-Type": []string{"application/json"}},
			compressible,
			false,
			"Accept-Encoding",
		},
		"legacy client with javascript": {
			newRequest("Accept-Encoding", "gzip", "User-Agent", "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.1)"),
			http.Header{"Content-Type": []string{"text/javascript"}},
			compressible,
			false,
			"Accept-Encoding",
		},
		"legacy client with text": {
			newRequest("Accept-Encoding", "gzip", "User-Agent", "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.1)"),
			http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
			compressible,
			true,
			"Accept-Encoding",
		},
		"no accept encoding": {
			newRequest(),
			http.Header{},
			compressible,
			false,
			"Accept-Encoding",
		},
		"other encodings": {
			newRequest("Accept-Encoding", "deflate, br"),
			http.Header{},
			compressible,
			false,
			"Accept-Encoding",
		},
		"not a whole word": {
			newRequest("Accept-Encoding", "xgzip"),
			http.Header{},
			compressible,
			false,
			"Accept-Encoding",
		},
		"case sensitive token": {
			newRequest("Accept-Encoding", "GZIP"),
			http.Header{},
			compressible,
			false,
			"Accept-Encoding",
		},
		"incompressible": {
			newRequest("Accept-Encoding", "gzip"),
			http.Header{},
			incompressible,
			false,
			"Accept-Encoding",
		},
		"compressed": {
			newRequest("Accept-Encoding", "deflate, gzip;q=1.0, *;q=0.5"),
			http.Header{"Content-Type": []string{"text/plain"}},
			compressible,
			true,
			"Accept-Encoding",
		},
		"existing vary": {
			newRequest("Accept-Encoding", "gzip"),
			http.Header{"Vary": []string{"Cookie"}},
			compressible,
			true,
			"Cookie, Accept-Encoding",
		},
		"already varying": {
			newRequest("Accept-Encoding", "gzip"),
			http.Header{"Vary": []string{"accept-encoding"}},
			compressible,
			true,
			"accept-encoding",
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			original := bytes.Clone(testCase.body)
			initialEncoding := testCase.header.Get("Content-Encoding")

			got := newTestService(t, nil).Compress(testCase.request, NewResponse(http.StatusOK, testCase.header, testCase.body))

			assert.Equal(t, []string{testCase.wantVary}, got.Header.Values("Vary"))

			if !testCase.wantEncoded {
				assert.Equal(t, original, got.Body)
				assert.Equal(t, initialEncoding, got.Header.Get("Content-Encoding"))
				assert.Empty(t, got.Header.Get("Content-Length"))

				return
			}

			assert.Equal(t, "gzip", got.Header.Get("Content-Encoding"))
			assert.Equal(t, strconv.Itoa(len(got.Body)), got.Header.Get("Content-Length"))
			assert.Less(t, len(got.Body), len(original))
			assert.Equal(t, original, gunzip(t, got.Body))
		})
	}
}

func TestCompressVaryOnce(t *testing.T) {
	t.Parallel()

	service := newTestService(t, nil)
	response := NewResponse(http.StatusOK, http.Header{}, compressible)

	for i := 0; i < 3; i++ {
		response = service.Compress(newRequest("Accept-Encoding", "gzip"), response)
	}

	assert.Equal(t, []string{"Accept-Encoding"}, response.Header.Values("Vary"))
}

func TestCompressETag(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body []byte
		etag string
		want string
	}{
		"strong": {
			compressible,
			`"abc"`,
			`"abc;gzip"`,
		},
		"weak": {
			compressible,
			`W/"abc"`,
			`W/"abc;gzip"`,
		},
		"unquoted": {
			compressible,
			`abc`,
			`abc`,
		},
		"not compressed": {
			incompressible,
			`"abc"`,
			`"abc"`,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			header := http.Header{}
			header.Set("ETag", testCase.etag)

			got := newTestService(t, nil).Compress(newRequest("Accept-Encoding", "gzip"), NewResponse(http.StatusOK, header, testCase.body))

			assert.Equal(t, testCase.want, got.Header.Get("ETag"))
		})
	}
}

func TestCompressStreaming(t *testing.T) {
	t.Parallel()

	t.Run("compressed", func(t *testing.T) {
		t.Parallel()

		chunks := [][]byte{[]byte("first "), []byte("second "), {}, []byte("third")}

		header := http.Header{}
		header.Set("Content-Length", "18")
		header.Set("ETag", `"abc"`)

		got := newTestService(t, nil).Compress(newRequest("Accept-Encoding", "gzip"), NewStreamingResponse(http.StatusOK, header, SliceSource(chunks...)))

		assert.True(t, got.Streaming)
		assert.Empty(t, got.Header.Get("Content-Length"))
		assert.Equal(t, "gzip", got.Header.Get("Content-Encoding"))
		assert.Equal(t, `"abc;gzip"`, got.Header.Get("ETag"))
		assert.Equal(t, "Accept-Encoding", got.Header.Get("Vary"))

		var produced int
		var compressed bytes.Buffer

		assert.NoError(t, got.Source.Each(func(chunk []byte) error {
			produced++
			_, err := compressed.Write(chunk)
			return err
		}))

		assert.Equal(t, len(chunks)+1, produced)
		assert.Equal(t, []byte("first second third"), gunzip(t, compressed.Bytes()))

		_, err := got.Source()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("lazy", func(t *testing.T) {
		t.Parallel()

		var pulled int
		source := func() ([]byte, error) {
			pulled++
			if pulled > 2 {
				return nil, io.EOF
			}

			return []byte("chunk"), nil
		}

		got := newTestService(t, nil).Compress(newRequest("Accept-Encoding", "gzip"), NewStreamingResponse(http.StatusOK, nil, source))
		assert.Equal(t, 0, pulled)

		_, err := got.Source()
		assert.NoError(t, err)
		assert.Equal(t, 1, pulled)

		content, err := got.Content()
		assert.NoError(t, err)
		assert.Equal(t, 3, pulled)
		assert.NotEmpty(t, content)
	})

	t.Run("not accepted", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Content-Length", "5")

		got := newTestService(t, nil).Compress(newRequest(), NewStreamingResponse(http.StatusOK, header, SliceSource([]byte("hello"))))

		assert.Equal(t, "5", got.Header.Get("Content-Length"))
		assert.Empty(t, got.Header.Get("Content-Encoding"))

		content, err := got.Content()
		assert.NoError(t, err)
		assert.Equal(t, []byte("hello"), content)
	})
}

func TestCompressRecorder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	recorder := mocks.NewGzipRecorder(ctrl)

	gomock.InOrder(
		recorder.EXPECT().Skip(reasonShort),
		recorder.EXPECT().Skip(reasonAccept),
		recorder.EXPECT().Skip(reasonLarger),
		recorder.EXPECT().Compress(len(compressible), gomock.Any()),
		recorder.EXPECT().Stream(),
	)

	service := newTestService(t, recorder)

	service.Compress(newRequest("Accept-Encoding", "gzip"), NewResponse(http.StatusOK, nil, []byte("short")))
	service.Compress(newRequest(), NewResponse(http.StatusOK, nil, compressible))
	service.Compress(newRequest("Accept-Encoding", "gzip"), NewResponse(http.StatusOK, nil, incompressible))
	service.Compress(newRequest("Accept-Encoding", "gzip"), NewResponse(http.StatusOK, nil, compressible))
	service.Compress(newRequest("Accept-Encoding", "gzip"), NewStreamingResponse(http.StatusOK, nil, SliceSource()))
}

func TestPatchVary(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		header http.Header
		values []string
		want   http.Header
	}{
		"empty": {
			http.Header{},
			[]string{"Accept-Encoding"},
			http.Header{"Vary": []string{"Accept-Encoding"}},
		},
		"append": {
			http.Header{"Vary": []string{"Cookie, Origin"}},
			[]string{"Accept-Encoding"},
			http.Header{"Vary": []string{"Cookie, Origin, Accept-Encoding"}},
		},
		"multiple lines": {
			http.Header{"Vary": []string{"Cookie", "Origin"}},
			[]string{"Accept-Encoding", "cookie"},
			http.Header{"Vary": []string{"Cookie, Origin, Accept-Encoding"}},
		},
		"present": {
			http.Header{"Vary": []string{"Cookie,ACCEPT-ENCODING"}},
			[]string{"Accept-Encoding"},
			http.Header{"Vary": []string{"Cookie,ACCEPT-ENCODING"}},
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			PatchVary(testCase.header, testCase.values...)

			if diff := cmp.Diff(testCase.want, testCase.header); len(diff) != 0 {
				t.Errorf("PatchVary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
