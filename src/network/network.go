package network

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"ofs-monitor/src/helpers"
	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// -----------------------------------------------------------------------------

// AsyncNetworkManager performs GET requests with retries, a shared cookie jar
// and a configurable User-Agent. The jar matters: the NSE data endpoints reject
// requests that have not first visited the homepage and collected its cookies.
type AsyncNetworkManager struct {
	Config *models.MConfig
	Client *http.Client
	Logger *logger.Logger

	warmupMu   sync.Mutex
	warmedUp   map[string]bool
	lastWarmup time.Time
}

// How long a warmup session is trusted before it is re-established.
const warmupTTL = 30 * time.Minute

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	jar, _ := cookiejar.New(nil)

	return &AsyncNetworkManager{
		Config: cfg,
		Logger: log,
		Client: &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.Network.RequestTimeout) * time.Second,
		},
		warmedUp: make(map[string]bool),
	}
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) userAgent() string {
	if nm.Config.Network.UserAgent != "" {
		return nm.Config.Network.UserAgent
	}
	return defaultUserAgent
}

// -----------------------------------------------------------------------------

// Warmup performs a plain GET against the given URL so the cookie jar picks up
// whatever session cookies the site sets. Repeated within warmupTTL it is a
// no-op; after that the session is re-established.
func (nm *AsyncNetworkManager) Warmup(urlStr string) error {
	if urlStr == "" {
		return nil
	}

	nm.warmupMu.Lock()
	defer nm.warmupMu.Unlock()

	if nm.warmedUp[urlStr] && time.Since(nm.lastWarmup) < warmupTTL {
		return nil
	}

	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", nm.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := nm.Client.Do(req)
	if err != nil {
		return helpers.NewNetworkError("warmup request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != 200 {
		return helpers.NewNetworkError(fmt.Sprintf("warmup bad status: %d", resp.StatusCode), nil)
	}

	nm.warmedUp[urlStr] = true
	nm.lastWarmup = time.Now()
	nm.Logger.Info("Warmed up session for %s", urlStr)
	return nil
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and exponential backoff.
func (nm *AsyncNetworkManager) Get(urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	finalUrl := reqUrl.String()

	var body []byte
	attempts := nm.Config.Network.MaxRetries + 1

	err = helpers.RetryWithBackoff(nm.Logger, "GET "+urlStr, attempts, time.Second, func() error {
		b, err := nm.doGet(finalUrl)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, helpers.NewNetworkError("request failed", err)
	}

	return body, nil
}

// -----------------------------------------------------------------------------

// doGet performs a single attempt against an already-encoded URL.
func (nm *AsyncNetworkManager) doGet(finalUrl string) ([]byte, error) {
	req, err := http.NewRequest("GET", finalUrl, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", nm.userAgent())
	req.Header.Set("Accept", "*/*")

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 || resp.StatusCode == 403 {
		nm.Logger.Info("Request blocked (%d). Session cookies likely expired.", resp.StatusCode)

		// Drop the cached warmup so the next collector cycle re-establishes it.
		nm.warmupMu.Lock()
		nm.warmedUp = make(map[string]bool)
		nm.warmupMu.Unlock()

		return nil, fmt.Errorf("blocked (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
