package schoolsby

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"dnevnik-backend/lib/restyutil"
	"dnevnik-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const sessionCookieName = "sessionid"

type ClientOptions struct {
	// Login form host, shared by every school subdomain.
	AuthBaseUrl string
	// The school's own subdomain, e.g. https://4minsk.schools.by.
	SchoolBaseUrl string
	// Academic term identifier used in diary week URLs.
	QuarterId int
	// Canonical date (YYYY-MM-DD) of the Monday the traversal starts from.
	StartWeek string
	// Courtesy pause between consecutive week fetches.
	RequestDelay time.Duration
	Timeout      time.Duration
	// Optional sink for raw HTTP exchange dumps.
	InstrumentOutput restyutil.InstrumentOutput
}

func (opts ClientOptions) withDefaults() ClientOptions {
	if opts.AuthBaseUrl == "" {
		opts.AuthBaseUrl = "https://schools.by"
	}
	if opts.SchoolBaseUrl == "" {
		opts.SchoolBaseUrl = "https://4minsk.schools.by"
	}
	if opts.QuarterId == 0 {
		opts.QuarterId = 90
	}
	if opts.StartWeek == "" {
		opts.StartWeek = "2026-01-12"
	}
	if opts.RequestDelay == 0 {
		opts.RequestDelay = 500 * time.Millisecond
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return opts
}

type Client struct {
	opts       ClientOptions
	authBase   *url.URL
	schoolBase *url.URL
	http       *resty.Client
}

func newHttpClient(opts ClientOptions) (*resty.Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	// the portal sits behind cloudflare and rejects requests that don't
	// look like a real browser
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/schoolsby/http")
	restyutil.InstrumentClient(client, opts.InstrumentOutput)
	return client, nil
}

func newClient(opts ClientOptions) (*Client, error) {
	opts = opts.withDefaults()

	authBase, err := url.Parse(opts.AuthBaseUrl)
	if err != nil {
		return nil, err
	}
	schoolBase, err := url.Parse(opts.SchoolBaseUrl)
	if err != nil {
		return nil, err
	}
	client, err := newHttpClient(opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		opts:       opts,
		authBase:   authBase,
		schoolBase: schoolBase,
		http:       client,
	}, nil
}

// NewClient builds an unauthenticated client with a fresh cookie jar,
// ready for Login.
func NewClient(opts ClientOptions) (*Client, error) {
	return newClient(opts)
}

// NewSessionClient builds a client that presents an already-harvested
// session cookie on every request. Whether the session is still alive
// is only ever discovered indirectly, by the portal serving pages with
// no diary content in them.
func NewSessionClient(opts ClientOptions, sessionId string) (*Client, error) {
	c, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	c.http.SetCookie(&http.Cookie{
		Name:  sessionCookieName,
		Value: sessionId,
	})
	return c, nil
}

func (c *Client) sessionCookie() string {
	jar := c.http.GetClient().Jar
	for _, u := range []*url.URL{c.authBase, c.schoolBase} {
		for _, cookie := range jar.Cookies(u) {
			if cookie.Name == sessionCookieName {
				return cookie.Value
			}
		}
	}
	return ""
}
