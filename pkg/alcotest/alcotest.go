package alcotest

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httpgzip/pkg/request"
)

var (
	httpClient = http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	defaultUserAgent = "Alcotest"
	exitFunc         = os.Exit
)

type Config struct {
	url       *string
	userAgent *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		url:       flags.New("Url", "URL to check").Prefix(prefix).DocPrefix("alcotest").String(fs, "", overrides),
		userAgent: flags.New("UserAgent", "User-Agent for check").Prefix(prefix).DocPrefix("alcotest").String(fs, defaultUserAgent, overrides),
	}
}

func GetStatusCode(ctx context.Context, url, userAgent string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("perform request: %w", err)
	}

	if _, err = request.ReadBodyResponse(resp); err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return resp.StatusCode, nil
}

func Do(ctx context.Context, url, userAgent string) error {
	statusCode, err := GetStatusCode(ctx, url, userAgent)
	if err != nil {
		return err
	}

	if statusCode > http.StatusNoContent {
		return fmt.Errorf("alcotest failed: HTTP/%d", statusCode)
	}

	return nil
}

// DoAndExit checks the configured URL and exits accordingly, doing nothing without URL
func DoAndExit(config Config) {
	url := *config.url
	if len(url) == 0 {
		return
	}

	if err := Do(context.Background(), url, *config.userAgent); err != nil {
		fmt.Println(err)
		exitFunc(1)

		return
	}

	exitFunc(0)
}
