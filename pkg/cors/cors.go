package cors

import (
	"flag"
	"maps"
	"net/http"
	"strconv"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httpgzip/pkg/model"
)

var _ model.Middleware = Service{}.Middleware

type Service struct {
	headers http.Header
}

type Config struct {
	origin      *string
	headers     *string
	methods     *string
	exposes     *string
	credentials *bool
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		origin:      flags.New("Origin", "Access-Control-Allow-Origin").Prefix(prefix).DocPrefix("cors").String(fs, "*", overrides),
		headers:     flags.New("Headers", "Access-Control-Allow-Headers").Prefix(prefix).DocPrefix("cors").String(fs, "Content-Type, Content-Encoding", overrides),
		methods:     flags.New("Methods", "Access-Control-Allow-Methods").Prefix(prefix).DocPrefix("cors").String(fs, "GET, POST, PUT", overrides),
		exposes:     flags.New("Expose", "Access-Control-Expose-Headers").Prefix(prefix).DocPrefix("cors").String(fs, "Content-Encoding, ETag", overrides),
		credentials: flags.New("Credentials", "Access-Control-Allow-Credentials").Prefix(prefix).DocPrefix("cors").Bool(fs, false, overrides),
	}
}

func New(config Config) Service {
	headers := http.Header{}

	addIfSet(headers, "Access-Control-Allow-Origin", *config.origin)
	addIfSet(headers, "Access-Control-Allow-Headers", *config.headers)
	addIfSet(headers, "Access-Control-Allow-Methods", *config.methods)
	addIfSet(headers, "Access-Control-Expose-Headers", *config.exposes)
	headers.Add("Access-Control-Allow-Credentials", strconv.FormatBool(*config.credentials))

	return Service{
		headers: headers,
	}
}

func (s Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		maps.Copy(w.Header(), s.headers)

		if next != nil {
			next.ServeHTTP(w, r)
		}
	})
}

func addIfSet(headers http.Header, name, value string) {
	if len(value) != 0 {
		headers.Add(name, value)
	}
}
